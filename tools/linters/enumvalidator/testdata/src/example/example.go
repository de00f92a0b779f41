package example

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

type EventType string

const (
	EventTypeWorkspaceCreated EventType = "workspace.created"
)

type Membership struct {
	UserID string
	Role   Role
}

type WorkspaceEvent struct {
	Type EventType
}

func bad() {
	m := &Membership{}
	m.Role = "OWNER" // want "enum field Role assigned string literal"

	e := &WorkspaceEvent{}
	e.Type = "workspace.archived" // want "enum field Type assigned string literal"

	_ = Membership{UserID: "u", Role: "ADMIN"}   // want "enum field Role set to string literal"
	_ = &WorkspaceEvent{Type: "workspace.gone"} // want "enum field Type set to string literal"
}

func good() {
	m := &Membership{}
	m.Role = RoleMember // OK: using constant
	m.UserID = "user-a" // OK: not an enum

	e := &WorkspaceEvent{}
	e.Type = EventTypeWorkspaceCreated // OK: using constant

	_ = Membership{UserID: "u", Role: RoleAdmin}
}

func alsoGood() {
	// OK: Variable, not literal
	role := RoleAdmin
	m := &Membership{Role: role}
	_ = m
}
