package authorize

import "strings"

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	ActionExecute Action = "execute" // batch jobs: recalculation
	ActionApprove Action = "approve" // month-end finalize

	ActionGrant Action = "grant"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionExecute: {}, ActionApprove: {},
	ActionGrant: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourceUser        Resource = "user"
	ResourceAuthSession Resource = "auth_session"

	ResourceStaff   Resource = "staff"
	ResourceMember  Resource = "member"
	ResourceReceipt Resource = "receipt"

	ResourceCommission Resource = "commission"
	ResourceSettlement Resource = "settlement"
	ResourceReport     Resource = "report"

	ResourceSystem Resource = "system"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceAuthSession: {},
	ResourceStaff: {}, ResourceMember: {}, ResourceReceipt: {},
	ResourceCommission: {}, ResourceSettlement: {}, ResourceReport: {},
	ResourceSystem: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// Roles are the policy subjects assigned to users via grouping policies.

const (
	WildcardRole Role = "*"

	RoleSysSuperAdmin Role = "role:sys:superadmin"

	RoleGymAdmin     Role = "role:gym:admin"
	RoleGymManager   Role = "role:gym:manager"
	RoleGymReception Role = "role:gym:reception"
	RoleGymCoach     Role = "role:gym:coach"
)

var KnownRoles = map[Role]struct{}{
	RoleSysSuperAdmin: {},
	RoleGymAdmin:      {},
	RoleGymManager:    {},
	RoleGymReception:  {},
	RoleGymCoach:      {},
}

// Arabic display names, as shown on the staff screens.
var RoleDisplayNamesAR = map[Role]string{
	RoleSysSuperAdmin: "مدير النظام",
	RoleGymAdmin:      "المدير العام",
	RoleGymManager:    "مدير الفرع",
	RoleGymReception:  "ريسبشن",
	RoleGymCoach:      "مدرب",
}

// User role names as stored on users.role.
const (
	UserRoleSuperAdmin = "superadmin"
	UserRoleAdmin      = "admin"
	UserRoleManager    = "manager"
	UserRoleReception  = "reception"
	UserRoleCoach      = "coach"
)

var userRoleToRBACRole = map[string]Role{
	UserRoleSuperAdmin: RoleSysSuperAdmin,
	UserRoleAdmin:      RoleGymAdmin,
	UserRoleManager:    RoleGymManager,
	UserRoleReception:  RoleGymReception,
	UserRoleCoach:      RoleGymCoach,
}

// RoleForUserRole maps a users.role value to its casbin role and domain.
func RoleForUserRole(name string) (Role, Domain, bool) {
	r, ok := userRoleToRBACRole[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", "", false
	}
	if r == RoleSysSuperAdmin {
		return r, DomainSys, true
	}
	return r, DomainGym, true
}

// ----------------------------
// Domains
// ----------------------------

// One deployment serves one gym, so there are only two domains.
const (
	DomainSys Domain = "sys"
	DomainGym Domain = "gym"

	WildcardDomain Domain = "*"
)

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	switch d {
	case DomainSys, DomainGym, WildcardDomain:
		return true
	default:
		return false
	}
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user id).
type GroupSubject string

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}

// ModelText is the casbin model used when no model file is configured.
const ModelText = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act, eft

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub, r.dom) && (p.dom == "*" || p.dom == r.dom) && (p.obj == "*" || keyMatch2(r.obj, p.obj)) && (p.act == "*" || keyMatch(r.act, p.act))
`
