package ownership

import "testing"

// fakeIdentity — минимальная реализация Identity для тестов.
type fakeIdentity struct {
	subject string
	roles   []string
}

func (f *fakeIdentity) SubjectID() string { return f.subject }

func (f *fakeIdentity) HasRole(role string) bool {
	for _, r := range f.roles {
		if r == role {
			return true
		}
	}
	return false
}

func TestCanAccess(t *testing.T) {
	owner := &fakeIdentity{subject: "user-1"}
	stranger := &fakeIdentity{subject: "user-2"}
	admin := &fakeIdentity{subject: "user-3", roles: []string{"Admin"}}
	empty := &fakeIdentity{}

	tests := []struct {
		name         string
		caller       Identity
		ownerID      string
		requiredRole string
		want         bool
	}{
		{"владелец", owner, "user-1", "Admin", true},
		{"чужой без роли", stranger, "user-1", "Admin", false},
		{"админский обход", admin, "user-1", "Admin", true},
		{"роль не требуется — только владелец", admin, "user-1", "", false},
		{"nil caller", nil, "user-1", "Admin", false},
		{"пустой subject", empty, "", "Admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccess(tt.caller, tt.ownerID, tt.requiredRole); got != tt.want {
				t.Errorf("CanAccess() = %v, ожидается %v", got, tt.want)
			}
		})
	}
}

func TestIsOwner(t *testing.T) {
	owner := &fakeIdentity{subject: "user-1"}

	if !IsOwner(owner, "user-1") {
		t.Error("IsOwner владельца = false, ожидается true")
	}
	if IsOwner(owner, "user-2") {
		t.Error("IsOwner чужого = true, ожидается false")
	}
	if IsOwner(nil, "user-1") {
		t.Error("IsOwner(nil) = true, ожидается false")
	}
	if IsOwner(&fakeIdentity{}, "") {
		t.Error("IsOwner с пустым subject = true, ожидается false")
	}
}
