package entity

import (
	"time"
)

// ChatSession is created once per visit and never mutated.
type ChatSession struct {
	Id        string
	CreatedAt time.Time
}
