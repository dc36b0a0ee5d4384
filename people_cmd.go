package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"librarydb/library"
)

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", what, arg)
	}
	return id, nil
}

func newMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage member records",
	}

	var member library.Member
	var class string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a member",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			member.Class = library.MembershipClass(class)
			id, err := lib.Directory.AddMember(member)
			if err != nil {
				return err
			}
			fmt.Printf("Added member #%d (%s)\n", id, member.Name)
			return nil
		},
	}
	add.Flags().StringVar(&member.Name, "name", "", "member name")
	add.Flags().StringVar(&member.Phone, "phone", "", "phone number")
	add.Flags().StringVar(&member.Email, "email", "", "email (optional)")
	add.Flags().StringVar(&class, "class", "Regular", "membership class: Regular or VIP")
	add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all members",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			members, err := lib.Directory.ListMembers()
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Println("(no members)")
				return nil
			}
			fmt.Printf("%-6s %-25s %-15s %-25s %-8s\n", "ID", "Name", "Phone", "Email", "Class")
			for _, m := range members {
				fmt.Printf("%-6d %-25.25s %-15.15s %-25.25s %-8s\n", m.ID, m.Name, m.Phone, m.Email, m.Class)
			}
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update MEMBER_ID",
		Short: "Update member fields; omitted flags keep the current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0], "member id")
			if err != nil {
				return err
			}
			upd := library.MemberUpdate{
				Name:  stringPtr(c, "name"),
				Phone: stringPtr(c, "phone"),
				Email: stringPtr(c, "email"),
				Class: stringPtr(c, "class"),
			}
			if err := lib.Directory.UpdateMember(id, upd); err != nil {
				return err
			}
			fmt.Printf("Updated member #%d\n", id)
			return nil
		},
	}
	update.Flags().String("name", "", "new name")
	update.Flags().String("phone", "", "new phone")
	update.Flags().String("email", "", "new email")
	update.Flags().String("class", "", "new class: Regular or VIP (invalid input keeps the current class)")

	del := &cobra.Command{
		Use:   "delete MEMBER_ID",
		Short: "Delete a member record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0], "member id")
			if err != nil {
				return err
			}
			if err := lib.Directory.DeleteMember(id); err != nil {
				return err
			}
			fmt.Printf("Deleted member #%d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, update, del)
	return cmd
}

func newStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff records",
	}

	var staff library.Staff
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a staff record",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			id, err := lib.Directory.AddStaff(staff)
			if err != nil {
				return err
			}
			fmt.Printf("Added staff #%d (%s)\n", id, staff.Name)
			return nil
		},
	}
	add.Flags().StringVar(&staff.Name, "name", "", "staff name")
	add.Flags().StringVar(&staff.Role, "role", "", "role")
	add.Flags().StringVar(&staff.Phone, "phone", "", "phone number")
	add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all staff",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			staff, err := lib.Directory.ListStaff()
			if err != nil {
				return err
			}
			if len(staff) == 0 {
				fmt.Println("(no staff)")
				return nil
			}
			fmt.Printf("%-6s %-25s %-20s %-15s\n", "ID", "Name", "Role", "Phone")
			for _, s := range staff {
				fmt.Printf("%-6d %-25.25s %-20.20s %-15.15s\n", s.ID, s.Name, s.Role, s.Phone)
			}
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update STAFF_ID",
		Short: "Update staff fields; omitted flags keep the current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0], "staff id")
			if err != nil {
				return err
			}
			upd := library.StaffUpdate{
				Name:  stringPtr(c, "name"),
				Role:  stringPtr(c, "role"),
				Phone: stringPtr(c, "phone"),
			}
			if err := lib.Directory.UpdateStaff(id, upd); err != nil {
				return err
			}
			fmt.Printf("Updated staff #%d\n", id)
			return nil
		},
	}
	update.Flags().String("name", "", "new name")
	update.Flags().String("role", "", "new role")
	update.Flags().String("phone", "", "new phone")

	del := &cobra.Command{
		Use:   "delete STAFF_ID",
		Short: "Delete a staff record",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0], "staff id")
			if err != nil {
				return err
			}
			if err := lib.Directory.DeleteStaff(id); err != nil {
				return err
			}
			fmt.Printf("Deleted staff #%d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, update, del)
	return cmd
}
