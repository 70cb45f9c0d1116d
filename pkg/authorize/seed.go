package authorize

import (
	"context"
	"fmt"
	"log/slog"
)

func allow(role Role, obj Resource, acts ...Action) []PermissionPolicy {
	out := make([]PermissionPolicy, 0, len(acts))
	for _, a := range acts {
		out = append(out, PermissionPolicy{role, DomainGym, obj, a, EffectAllow})
	}
	return out
}

// DefaultPolicies is the baseline permission matrix for the gym domain.
func DefaultPolicies() []PermissionPolicy {
	var ps []PermissionPolicy

	ps = append(ps, PermissionPolicy{RoleSysSuperAdmin, WildcardDomain, WildcardResource, WildcardAction, EffectAllow})

	// Admin: everything in the gym, including finalize and payouts.
	ps = append(ps, PermissionPolicy{RoleGymAdmin, DomainGym, WildcardResource, WildcardAction, EffectAllow})

	// Manager: runs the floor and can replay commissions, but cannot close a
	// month or pay it out.
	ps = append(ps, allow(RoleGymManager, ResourceStaff, ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionList)...)
	ps = append(ps, allow(RoleGymManager, ResourceMember, ActionCreate, ActionRead, ActionUpdate, ActionList)...)
	ps = append(ps, allow(RoleGymManager, ResourceReceipt, ActionCreate, ActionRead, ActionUpdate, ActionList)...)
	ps = append(ps, allow(RoleGymManager, ResourceUser, ActionRead, ActionList)...)
	ps = append(ps, allow(RoleGymManager, ResourceCommission, ActionCreate, ActionRead, ActionExecute)...)
	ps = append(ps, allow(RoleGymManager, ResourceReport, ActionRead)...)
	ps = append(ps, allow(RoleGymManager, ResourceSettlement, ActionRead)...)

	// Reception: front desk sales.
	ps = append(ps, allow(RoleGymReception, ResourceMember, ActionCreate, ActionRead, ActionUpdate, ActionList)...)
	ps = append(ps, allow(RoleGymReception, ResourceReceipt, ActionCreate, ActionRead, ActionList)...)
	ps = append(ps, allow(RoleGymReception, ResourceStaff, ActionRead, ActionList)...)
	ps = append(ps, allow(RoleGymReception, ResourceCommission, ActionCreate, ActionRead)...)
	ps = append(ps, allow(RoleGymReception, ResourceReport, ActionRead)...)

	// Coach: read-only.
	ps = append(ps, allow(RoleGymCoach, ResourceMember, ActionRead, ActionList)...)
	ps = append(ps, allow(RoleGymCoach, ResourceCommission, ActionRead)...)
	ps = append(ps, allow(RoleGymCoach, ResourceReport, ActionRead)...)

	return ps
}

// SeedDefaultPolicies writes DefaultPolicies. Existing rows are left alone.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	policies := DefaultPolicies()
	added := 0
	for _, p := range policies {
		ok, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			return fmt.Errorf("add policy %s %s %s: %w", p.Subject, p.Object, p.Action, err)
		}
		if ok {
			added++
		}
	}

	slog.Info("seeded default RBAC policies", "count", len(policies), "added", added)
	return nil
}

// AssignUserRole grants the casbin role behind a users.role value.
func AssignUserRole(ctx context.Context, auth IAuthorization, userID, roleName string) error {
	role, domain, ok := RoleForUserRole(roleName)
	if !ok {
		return fmt.Errorf("%w: unknown user role %q", ErrInvalidArgs, roleName)
	}
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), role, domain)
	return err
}
