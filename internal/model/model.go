package model

import "time"

// Project is a club project shown by the list command.
type Project struct {
	Key         string
	Title       string
	URL         string
	Description string
	Color       int
	// JoinAs is the alias advertised for joining the project's role.
	JoinAs string
	// Feed is an Atom/RSS feed with the project's recent activity.
	Feed string
}

// RoleGrant describes a guild role members can join themselves.
type RoleGrant struct {
	Role      string
	Aliases   []string
	Greetings []string
	// File is sent after the greetings when set.
	File string
	// Exclusive grants remove every other self-assigned role first.
	Exclusive bool
}

type Item struct {
	Title      string
	Link       string
	Author     string
	Date       time.Time
	Summary    string
	SourceName string
}
