package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/internal/models"
)

type userAddCmd struct {
	name  string
	email string
}

func (*userAddCmd) Name() string     { return "user-add" }
func (*userAddCmd) Synopsis() string { return "register a new user" }
func (*userAddCmd) Usage() string {
	return `user-add -name <name> -email <email>

  Registers a user and prints the new user ID. Emails are unique.
`
}

func (c *userAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name (required)")
	f.StringVar(&c.email, "email", "", "Email address (required)")
}

func (c *userAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if c.name == "" || c.email == "" {
		a.errorf("-name and -email are required")
		return subcommands.ExitUsageError
	}

	user, err := a.ledger.CreateUser(ctx, c.name, c.email)
	if err != nil {
		a.errorf("could not create user: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(a.out, user.ID)
	return subcommands.ExitSuccess
}

type userShowCmd struct{}

func (*userShowCmd) Name() string     { return "user-show" }
func (*userShowCmd) Synopsis() string { return "show a user by ID or email" }
func (*userShowCmd) Usage() string {
	return `user-show <user-id|email>
`
}

func (*userShowCmd) SetFlags(*flag.FlagSet) {}

func (c *userShowCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one user ID or email")
		return subcommands.ExitUsageError
	}

	var (
		user *models.User
		err  error
	)
	if key := f.Arg(0); strings.Contains(key, "@") {
		user, err = a.ledger.GetUserByEmail(ctx, key)
	} else {
		user, err = a.ledger.GetUser(ctx, key)
	}
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.out, "%s\t%s\t%s\n", user.ID, user.Name, user.Email)
	return subcommands.ExitSuccess
}

type groupAddCmd struct {
	name        string
	description string
	members     string
}

func (*groupAddCmd) Name() string     { return "group-add" }
func (*groupAddCmd) Synopsis() string { return "create a group of users" }
func (*groupAddCmd) Usage() string {
	return `group-add -name <name> [-description <text>] -members <id,id,...>

  Creates a group and prints the new group ID. Every member must be a
  registered user.
`
}

func (c *groupAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Group name (required)")
	f.StringVar(&c.description, "description", "", "Optional description")
	f.StringVar(&c.members, "members", "", "Comma-separated member user IDs")
}

func (c *groupAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if c.name == "" {
		a.errorf("-name is required")
		return subcommands.ExitUsageError
	}

	group, err := a.ledger.CreateGroup(ctx, c.name, c.description, list(c.members))
	if err != nil {
		a.errorf("could not create group: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(a.out, group.ID)
	return subcommands.ExitSuccess
}

type groupMembersCmd struct {
	add string
}

func (*groupMembersCmd) Name() string     { return "group-members" }
func (*groupMembersCmd) Synopsis() string { return "list or add group members" }
func (*groupMembersCmd) Usage() string {
	return `group-members [-add <id,id,...>] <group-id>

  Prints the members of the group, one per line, after adding the users
  given with -add.
`
}

func (c *groupMembersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Comma-separated user IDs to add")
}

func (c *groupMembersCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one group ID")
		return subcommands.ExitUsageError
	}

	var (
		group *models.Group
		err   error
	)
	if add := list(c.add); len(add) > 0 {
		group, err = a.ledger.AddGroupMembers(ctx, f.Arg(0), add)
	} else {
		group, err = a.ledger.GetGroup(ctx, f.Arg(0))
	}
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	for _, m := range group.Members {
		fmt.Fprintln(a.out, m)
	}
	return subcommands.ExitSuccess
}
