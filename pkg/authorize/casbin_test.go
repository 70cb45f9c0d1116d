package authorize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// createTestEnforcer creates a file-backed Casbin enforcer for testing
func createTestEnforcer(t *testing.T) *casbin.DistributedEnforcer {
	t.Helper()

	tmpDir := t.TempDir()

	policyPath := filepath.Join(tmpDir, "policy.csv")
	if err := os.WriteFile(policyPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}

	m, err := LoadModel("")
	if err != nil {
		t.Fatalf("failed to load model: %v", err)
	}

	e, err := casbin.NewDistributedEnforcer(m, fileadapter.NewAdapter(policyPath))
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}

	e.EnableAutoSave(false)
	e.EnableEnforce(true)

	return e
}

func newSeededAuth(t *testing.T) IAuthorization {
	t.Helper()
	auth, err := NewAuthorization(createTestEnforcer(t), true)
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	return auth
}

func TestNewAuthorization(t *testing.T) {
	t.Run("returns error for nil enforcer", func(t *testing.T) {
		_, err := NewAuthorization(nil, true)
		if err == nil {
			t.Error("Expected error for nil enforcer")
		}
	})

	t.Run("succeeds with valid enforcer", func(t *testing.T) {
		auth, err := NewAuthorization(createTestEnforcer(t), true)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if auth == nil {
			t.Error("Expected non-nil authorization")
		}
	})
}

func TestEnforceValidation(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		subject  GroupSubject
		domain   Domain
		resource Resource
		action   Action
	}{
		{"empty subject", "", DomainGym, ResourceReceipt, ActionRead},
		{"invalid domain", "u1", Domain("clinic:1"), ResourceReceipt, ActionRead},
		{"wildcard domain", "u1", WildcardDomain, ResourceReceipt, ActionRead},
		{"unknown resource", "u1", DomainGym, Resource("patient"), ActionRead},
		{"unknown action", "u1", DomainGym, ResourceReceipt, Action("archive")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Enforce(ctx, tt.subject, tt.domain, tt.resource, tt.action)
			if !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("Expected ErrInvalidArgs, got %v", err)
			}
		})
	}
}

func TestDefaultPolicyMatrix(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	users := map[string]string{
		"admin-1":     UserRoleAdmin,
		"manager-1":   UserRoleManager,
		"reception-1": UserRoleReception,
		"coach-1":     UserRoleCoach,
	}
	for id, role := range users {
		if err := AssignUserRole(ctx, auth, id, role); err != nil {
			t.Fatalf("AssignUserRole(%s): %v", id, err)
		}
	}

	tests := []struct {
		subject  string
		resource Resource
		action   Action
		want     bool
	}{
		{"admin-1", ResourceCommission, ActionApprove, true},
		{"admin-1", ResourceSettlement, ActionUpdate, true},
		{"manager-1", ResourceCommission, ActionApprove, false},
		{"manager-1", ResourceCommission, ActionExecute, true},
		{"manager-1", ResourceSettlement, ActionUpdate, false},
		{"manager-1", ResourceSettlement, ActionRead, true},
		{"reception-1", ResourceCommission, ActionCreate, true},
		{"reception-1", ResourceCommission, ActionExecute, false},
		{"reception-1", ResourceReceipt, ActionCreate, true},
		{"reception-1", ResourceReceipt, ActionUpdate, false},
		{"reception-1", ResourceReport, ActionRead, true},
		{"coach-1", ResourceReport, ActionRead, true},
		{"coach-1", ResourceCommission, ActionCreate, false},
		{"coach-1", ResourceMember, ActionUpdate, false},
		{"stranger", ResourceReport, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.subject+" "+string(tt.resource)+":"+string(tt.action), func(t *testing.T) {
			got, err := auth.Enforce(ctx, GroupSubject(tt.subject), DomainGym, tt.resource, tt.action)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustEnforce(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	if err := AssignUserRole(ctx, auth, "coach-2", UserRoleCoach); err != nil {
		t.Fatalf("AssignUserRole: %v", err)
	}

	t.Run("returns nil when allowed", func(t *testing.T) {
		if err := auth.MustEnforce(ctx, "coach-2", DomainGym, ResourceReport, ActionRead); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("returns ErrForbidden when denied", func(t *testing.T) {
		err := auth.MustEnforce(ctx, "coach-2", DomainGym, ResourceCommission, ActionApprove)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("Expected ErrForbidden, got %v", err)
		}
	})
}

func TestSuperAdminBypass(t *testing.T) {
	ctx := context.Background()

	t.Run("bypass enabled", func(t *testing.T) {
		auth, _ := NewAuthorization(createTestEnforcer(t), true)
		if err := AssignUserRole(ctx, auth, "root", UserRoleSuperAdmin); err != nil {
			t.Fatalf("AssignUserRole: %v", err)
		}
		allowed, err := auth.Enforce(ctx, "root", DomainGym, ResourceSettlement, ActionUpdate)
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if !allowed {
			t.Error("Expected superadmin to be allowed")
		}
	})

	t.Run("bypass disabled without policies", func(t *testing.T) {
		auth, _ := NewAuthorization(createTestEnforcer(t), false)
		if err := AssignUserRole(ctx, auth, "root", UserRoleSuperAdmin); err != nil {
			t.Fatalf("AssignUserRole: %v", err)
		}
		allowed, _ := auth.Enforce(ctx, "root", DomainGym, ResourceSettlement, ActionUpdate)
		if allowed {
			t.Error("Expected superadmin to be denied when bypass is off and no policy exists")
		}
	})
}

func TestRoleManagement(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t), true)
	ctx := context.Background()

	t.Run("add and get roles", func(t *testing.T) {
		added, err := auth.AddRoleForUserInDomain(ctx, "user-789", RoleGymReception, DomainGym)
		if err != nil {
			t.Errorf("Failed to add role: %v", err)
		}
		if !added {
			t.Error("Expected role to be added")
		}

		roles, err := auth.GetRolesForUserInDomain(ctx, "user-789", DomainGym)
		if err != nil {
			t.Errorf("Failed to get roles: %v", err)
		}
		if len(roles) != 1 || roles[0] != RoleGymReception {
			t.Errorf("Expected [%q], got %v", RoleGymReception, roles)
		}
	})

	t.Run("error for invalid role", func(t *testing.T) {
		_, err := auth.AddRoleForUserInDomain(ctx, "user-789", Role("role:clinic:owner"), DomainGym)
		if err == nil {
			t.Error("Expected error for invalid role")
		}
	})

	t.Run("error for unknown user role name", func(t *testing.T) {
		if err := AssignUserRole(ctx, auth, "user-789", "janitor"); !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("Expected ErrInvalidArgs, got %v", err)
		}
	})
}

func TestPermissionManagement(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t), true)
	ctx := context.Background()

	added, err := auth.AddPermission(ctx, RoleGymCoach, DomainGym, ResourceStaff, ActionRead, EffectAllow)
	if err != nil {
		t.Errorf("Failed to add permission: %v", err)
	}
	if !added {
		t.Error("Expected permission to be added")
	}

	_, err = auth.AddPermission(ctx, RoleGymCoach, DomainGym, ResourceStaff, ActionRead, PolicyEffect("invalid"))
	if err == nil {
		t.Error("Expected error for invalid effect")
	}
}

func TestRoleForUserRole(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		domain Domain
		ok     bool
	}{
		{"admin", RoleGymAdmin, DomainGym, true},
		{" Reception ", RoleGymReception, DomainGym, true},
		{"superadmin", RoleSysSuperAdmin, DomainSys, true},
		{"owner", "", "", false},
	}
	for _, tt := range tests {
		role, domain, ok := RoleForUserRole(tt.name)
		if role != tt.role || domain != tt.domain || ok != tt.ok {
			t.Errorf("RoleForUserRole(%q) = (%q, %q, %v)", tt.name, role, domain, ok)
		}
	}
}
