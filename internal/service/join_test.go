package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"planie.app/api/internal/model"
	"planie.app/api/internal/service"
	"planie.app/api/internal/store"
)

var _ = Describe("JoinService", func() {
	var (
		svc     service.JoinService
		work    *mockWorkspaceStore
		members *mockMembershipStore
		events  *mockProducer
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		work = &mockWorkspaceStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Workspace, error) {
				return &model.Workspace{ID: id, Name: "Eng", InviteCode: "Ab3xY9"}, nil
			},
		}
		members = &mockMembershipStore{}
		events = &mockProducer{}
		svc = service.NewJoinService(work, members, events)
	})

	It("adds the caller as a member when the code matches", func() {
		ws, err := svc.Join(ctx, "user-b", 4, "Ab3xY9")
		Expect(err).NotTo(HaveOccurred())
		Expect(ws.ID).To(Equal(int64(4)))

		Expect(members.created).To(HaveLen(1))
		Expect(members.created[0].Role).To(Equal(model.RoleMember))
		Expect(members.created[0].UserID).To(Equal("user-b"))
		Expect(members.created[0].WorkspaceID).To(Equal(int64(4)))
		Expect(events.types()).To(Equal([]model.EventType{model.EventTypeMemberJoined}))
	})

	It("rejects existing members even with the valid code", func() {
		members.getFn = func(context.Context, int64, string) (*model.Membership, error) {
			return memberOf(4, "user-b"), nil
		}

		_, err := svc.Join(ctx, "user-b", 4, "Ab3xY9")
		Expect(err).To(MatchError(service.ErrAlreadyMember))
		Expect(members.created).To(BeEmpty())
	})

	It("reports a missing workspace", func() {
		work.getByIDFn = func(context.Context, int64) (*model.Workspace, error) {
			return nil, store.ErrNotFound
		}

		_, err := svc.Join(ctx, "user-b", 4, "Ab3xY9")
		Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
	})

	DescribeTable("rejects codes that are not an exact match",
		func(code string) {
			_, err := svc.Join(ctx, "user-b", 4, code)
			Expect(err).To(MatchError(service.ErrInvalidInviteCode))
			Expect(members.created).To(BeEmpty())
		},
		Entry("wrong code", "XXXXXX"),
		Entry("different case", "ab3xy9"),
		Entry("prefix", "Ab3xY"),
		Entry("empty", ""),
	)

	It("maps a unique violation from a concurrent join to AlreadyMember", func() {
		members.createFn = func(context.Context, *model.Membership) error {
			return store.ErrDuplicate
		}

		_, err := svc.Join(ctx, "user-b", 4, "Ab3xY9")
		Expect(err).To(MatchError(service.ErrAlreadyMember))
		Expect(events.events).To(BeEmpty())
	})

	It("wraps infrastructure failures", func() {
		boom := errors.New("db down")
		members.createFn = func(context.Context, *model.Membership) error {
			return boom
		}

		_, err := svc.Join(ctx, "user-b", 4, "Ab3xY9")
		Expect(err).To(MatchError(boom))
	})
})
