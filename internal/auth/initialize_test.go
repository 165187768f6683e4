package auth

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
)

// fakeDirectory is a scriptable Directory for pipeline tests.
type fakeDirectory struct {
	users       map[string]*safeq.User
	groups      map[string][]safeq.Group
	lookupErr   error
	groupsErr   error
	panicLookup bool
}

func (d *fakeDirectory) LookupUser(_ context.Context, username, _ string) (*safeq.User, error) {
	if d.panicLookup {
		panic("backend client blew up")
	}

	if d.lookupErr != nil {
		return nil, d.lookupErr
	}

	u, ok := d.users[username]
	if !ok {
		return nil, safeq.ErrUserNotFound
	}

	return u, nil
}

func (d *fakeDirectory) UserGroups(_ context.Context, username string) ([]safeq.Group, error) {
	if d.groupsErr != nil {
		return nil, d.groupsErr
	}

	return d.groups[username], nil
}

func testInitConfig() InitializerConfig {
	return InitializerConfig{
		RoleGroups:    testMapping(),
		LocalProvider: "local",
	}
}

func TestInitializePermissions_SuperAdminUnrestricted(t *testing.T) {
	dir := &fakeDirectory{
		users: map[string]*safeq.User{
			"root@school.example": {UserName: "root@school.example"},
		},
		groups: map[string][]safeq.Group{
			"root@school.example": {{Name: "צפת - 240234"}},
		},
	}

	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "root@school.example"},
		[]string{"SafeQ-SuperAdmin"},
		testInitConfig())

	if !record.Success {
		t.Fatalf("expected success, got error %q", record.ErrorMessage)
	}

	if record.Role != RoleSuperAdmin {
		t.Errorf("Role = %q, want superadmin", record.Role)
	}

	if !record.Scope.IsUnrestricted() {
		t.Error("superadmin scope must be unrestricted")
	}

	if record.Source != SourceEntra {
		t.Errorf("Source = %q, want entra", record.Source)
	}
}

func TestInitializePermissions_AdminScopedToDepartments(t *testing.T) {
	dir := &fakeDirectory{
		users: map[string]*safeq.User{
			"manager@school.example": {UserName: "manager@school.example"},
		},
		groups: map[string][]safeq.Group{
			"manager@school.example": {
				{Name: "Local Users"},
				{Name: "צפת - 240234"},
				{Name: "עלי זהב - 234768"},
			},
		},
	}

	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "manager@school.example"},
		[]string{"Everyone", "SafeQ-Admin"},
		testInitConfig())

	if !record.Success {
		t.Fatalf("expected success, got error %q", record.ErrorMessage)
	}

	if record.Role != RoleAdmin {
		t.Errorf("Role = %q, want admin", record.Role)
	}

	if record.Scope.IsUnrestricted() {
		t.Fatal("admin scope must not be unrestricted")
	}

	want := []string{"צפת - 240234", "עלי זהב - 234768"}
	if got := record.Scope.Departments(); !reflect.DeepEqual(got, want) {
		t.Errorf("Departments = %v, want %v", got, want)
	}

	if record.LocalUsername != "manager@school.example" {
		t.Errorf("LocalUsername = %q", record.LocalUsername)
	}
}

func TestInitializePermissions_NoRoleGroup(t *testing.T) {
	dir := &fakeDirectory{}

	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "nobody@school.example"},
		[]string{"Everyone", "צפת - 240234"},
		testInitConfig())

	if record.Success {
		t.Fatal("expected failure")
	}

	if record.ErrorMessage != ErrNoRoleGroup.Error() {
		t.Errorf("ErrorMessage = %q, want %q", record.ErrorMessage, ErrNoRoleGroup)
	}

	if record.ExternalUsername != "nobody@school.example" {
		t.Errorf("ExternalUsername = %q", record.ExternalUsername)
	}
}

func TestInitializePermissions_NoLocalAccount(t *testing.T) {
	dir := &fakeDirectory{} // empty user map: lookup misses

	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "ghost@school.example"},
		[]string{"SafeQ-Support"},
		testInitConfig())

	if record.Success {
		t.Fatal("expected failure")
	}

	if record.ErrorMessage != ErrNoLocalAccount.Error() {
		t.Errorf("ErrorMessage = %q, want %q", record.ErrorMessage, ErrNoLocalAccount)
	}
}

func TestInitializePermissions_LookupTransportErrorIsHardGate(t *testing.T) {
	dir := &fakeDirectory{lookupErr: errors.New("connection refused")}

	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "viewer@school.example"},
		[]string{"SafeQ-View"},
		testInitConfig())

	if record.Success || record.ErrorMessage != ErrNoLocalAccount.Error() {
		t.Errorf("success=%v message=%q, want failure with %q",
			record.Success, record.ErrorMessage, ErrNoLocalAccount)
	}
}

func TestInitializePermissions_NoDepartments(t *testing.T) {
	dir := &fakeDirectory{
		users: map[string]*safeq.User{
			"support@school.example": {UserName: "support@school.example"},
		},
		groups: map[string][]safeq.Group{
			"support@school.example": {{Name: "Local Users"}, {Name: "Everyone"}},
		},
	}

	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "support@school.example"},
		[]string{"SafeQ-Support"},
		testInitConfig())

	if record.Success {
		t.Fatal("expected failure")
	}

	if record.ErrorMessage != ErrNoDepartments.Error() {
		t.Errorf("ErrorMessage = %q, want %q", record.ErrorMessage, ErrNoDepartments)
	}
}

func TestInitializePermissions_GroupLoadErrorDegrades(t *testing.T) {
	dir := &fakeDirectory{
		users: map[string]*safeq.User{
			"root@school.example":   {UserName: "root@school.example"},
			"viewer@school.example": {UserName: "viewer@school.example"},
		},
		groupsErr: errors.New("timeout"),
	}

	// superadmin does not need departments, so a group load failure still
	// yields a working session
	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "root@school.example"},
		[]string{"SafeQ-SuperAdmin"},
		testInitConfig())

	if !record.Success || !record.Scope.IsUnrestricted() {
		t.Errorf("superadmin with failed group load: success=%v message=%q",
			record.Success, record.ErrorMessage)
	}

	// everyone else ends up with zero departments and is denied
	record = InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "viewer@school.example"},
		[]string{"SafeQ-View"},
		testInitConfig())

	if record.Success || record.ErrorMessage != ErrNoDepartments.Error() {
		t.Errorf("viewer with failed group load: success=%v message=%q, want %q",
			record.Success, record.ErrorMessage, ErrNoDepartments)
	}
}

func TestInitializePermissions_NoUsernameClaim(t *testing.T) {
	record := InitializePermissions(context.Background(), &fakeDirectory{},
		UserInfo{}, []string{"SafeQ-Admin"}, testInitConfig())

	if record.Success || record.ErrorMessage != ErrNoUsername.Error() {
		t.Errorf("success=%v message=%q, want failure with %q",
			record.Success, record.ErrorMessage, ErrNoUsername)
	}
}

func TestInitializePermissions_MailClaimFallback(t *testing.T) {
	dir := &fakeDirectory{
		users: map[string]*safeq.User{
			"mail@school.example": {UserName: "mail@school.example"},
		},
		groups: map[string][]safeq.Group{
			"mail@school.example": {{Name: "צפת - 240234"}},
		},
	}

	record := InitializePermissions(context.Background(), dir,
		UserInfo{Mail: "mail@school.example"},
		[]string{"SafeQ-View"},
		testInitConfig())

	if !record.Success {
		t.Fatalf("expected success via mail claim, got %q", record.ErrorMessage)
	}

	if record.ExternalUsername != "mail@school.example" {
		t.Errorf("ExternalUsername = %q", record.ExternalUsername)
	}
}

func TestInitializePermissions_PanicBecomesFailureRecord(t *testing.T) {
	dir := &fakeDirectory{panicLookup: true}

	record := InitializePermissions(context.Background(), dir,
		UserInfo{PreferredUsername: "boom@school.example"},
		[]string{"SafeQ-Admin"},
		testInitConfig())

	if record.Success {
		t.Fatal("expected failure record after panic")
	}

	if record.ErrorMessage != ErrPermissionInit.Error() {
		t.Errorf("ErrorMessage = %q, want %q", record.ErrorMessage, ErrPermissionInit)
	}
}

func TestUserInfoUsername(t *testing.T) {
	tests := []struct {
		name   string
		info   UserInfo
		want   string
		wantOK bool
	}{
		{"preferred wins", UserInfo{PreferredUsername: "a", Mail: "b"}, "a", true},
		{"mail fallback", UserInfo{Mail: "b"}, "b", true},
		{"both empty", UserInfo{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.info.Username()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Username() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
