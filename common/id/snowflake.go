package id

import (
	"errors"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// ErrInvalid is returned by Parse for anything that is not a positive int64.
var ErrInvalid = errors.New("invalid id")

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// Parse decodes the decimal string form used in URLs and JSON payloads.
func Parse(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalid
	}
	return v, nil
}

// Format is the inverse of Parse.
func Format(v int64) string {
	return strconv.FormatInt(v, 10)
}
