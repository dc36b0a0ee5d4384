package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMembershipClass(t *testing.T) {
	cases := []struct {
		in    string
		class MembershipClass
		ok    bool
	}{
		{"Regular", Regular, true},
		{"regular", Regular, true},
		{"REGULAR", Regular, true},
		{"VIP", VIP, true},
		{"vip", VIP, true},
		{"Vip", VIP, true},
		{"", Regular, false},
		{"gold", Regular, false},
		{"vip ", Regular, false},
	}
	for _, c := range cases {
		class, ok := ParseMembershipClass(c.in)
		assert.Equal(t, c.class, class, "input %q", c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
	}
}

func TestAddMemberGeneratesIDs(t *testing.T) {
	lib := tempLibrary(t)

	first := mustAddMember(t, lib, Member{Name: "Alice", Class: VIP})
	second := mustAddMember(t, lib, Member{Name: "Bob"})
	assert.Greater(t, second, first)

	m, err := lib.Directory.GetMember(first)
	require.NoError(t, err)
	assert.Equal(t, "Alice", m.Name)
	assert.Equal(t, VIP, m.Class)
}

func TestAddMemberDefaultsClass(t *testing.T) {
	lib := tempLibrary(t)

	// Empty and unrecognized classes fall back to Regular instead of failing.
	for _, class := range []MembershipClass{"", "platinum"} {
		id := mustAddMember(t, lib, Member{Name: "X", Class: class})
		m, err := lib.Directory.GetMember(id)
		require.NoError(t, err)
		assert.Equal(t, Regular, m.Class)
	}

	// Any casing of a known class is stored in canonical form.
	id := mustAddMember(t, lib, Member{Name: "Y", Class: "vip"})
	m, err := lib.Directory.GetMember(id)
	require.NoError(t, err)
	assert.Equal(t, VIP, m.Class)

	_, err = lib.Directory.AddMember(Member{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateMemberPartial(t *testing.T) {
	lib := tempLibrary(t)
	id := mustAddMember(t, lib, Member{Name: "Alice", Phone: "555-1", Email: "a@x", Class: VIP})

	phone := "555-2"
	require.NoError(t, lib.Directory.UpdateMember(id, MemberUpdate{Phone: &phone}))

	m, err := lib.Directory.GetMember(id)
	require.NoError(t, err)
	assert.Equal(t, "555-2", m.Phone)
	assert.Equal(t, "Alice", m.Name)
	assert.Equal(t, "a@x", m.Email)
	assert.Equal(t, VIP, m.Class)
}

func TestUpdateMemberInvalidClassKeepsPrior(t *testing.T) {
	lib := tempLibrary(t)
	id := mustAddMember(t, lib, Member{Name: "Alice", Class: VIP})

	bogus := "silver"
	require.NoError(t, lib.Directory.UpdateMember(id, MemberUpdate{Class: &bogus}))

	m, err := lib.Directory.GetMember(id)
	require.NoError(t, err)
	assert.Equal(t, VIP, m.Class)

	downgrade := "regular"
	require.NoError(t, lib.Directory.UpdateMember(id, MemberUpdate{Class: &downgrade}))
	m, err = lib.Directory.GetMember(id)
	require.NoError(t, err)
	assert.Equal(t, Regular, m.Class)
}

func TestMemberNotFound(t *testing.T) {
	lib := tempLibrary(t)

	_, err := lib.Directory.GetMember(42)
	assert.ErrorIs(t, err, ErrNotFound)

	name := "X"
	assert.ErrorIs(t, lib.Directory.UpdateMember(42, MemberUpdate{Name: &name}), ErrNotFound)
	assert.ErrorIs(t, lib.Directory.DeleteMember(42), ErrNotFound)
}

func TestDeleteMemberAndList(t *testing.T) {
	lib := tempLibrary(t)
	a := mustAddMember(t, lib, Member{Name: "Alice"})
	b := mustAddMember(t, lib, Member{Name: "Bob"})

	require.NoError(t, lib.Directory.DeleteMember(a))

	members, err := lib.Directory.ListMembers()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, b, members[0].ID)
}

func TestStaffCRUD(t *testing.T) {
	lib := tempLibrary(t)

	id, err := lib.Directory.AddStaff(Staff{Name: "Dana", Role: "Librarian", Phone: "555-1"})
	require.NoError(t, err)

	s, err := lib.Directory.GetStaff(id)
	require.NoError(t, err)
	assert.Equal(t, "Dana", s.Name)
	assert.Equal(t, "Librarian", s.Role)

	role := "Manager"
	require.NoError(t, lib.Directory.UpdateStaff(id, StaffUpdate{Role: &role}))
	s, err = lib.Directory.GetStaff(id)
	require.NoError(t, err)
	assert.Equal(t, "Manager", s.Role)
	assert.Equal(t, "Dana", s.Name)

	all, err := lib.Directory.ListStaff()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, lib.Directory.DeleteStaff(id))
	_, err = lib.Directory.GetStaff(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaffErrors(t *testing.T) {
	lib := tempLibrary(t)

	_, err := lib.Directory.AddStaff(Staff{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	role := "X"
	assert.ErrorIs(t, lib.Directory.UpdateStaff(7, StaffUpdate{Role: &role}), ErrNotFound)
	assert.ErrorIs(t, lib.Directory.DeleteStaff(7), ErrNotFound)
}
