package rbac

import "go-colaboradores/internal/domain"

// Policy grants role the action on resource.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies is the built-in permission table. Admins can do everything,
// editors maintain the catalog and read attendance, usuarios check in.
var DefaultPolicies = []Policy{
	{domain.RoleAdmin, "*", "*"},

	{domain.RoleEditor, "collaborator", "read"},
	{domain.RoleEditor, "collaborator", "create"},
	{domain.RoleEditor, "collaborator", "update"},
	{domain.RoleEditor, "collaborator", "delete"},
	{domain.RoleEditor, "collaborator", "verify"},
	{domain.RoleEditor, "puesto", "read"},
	{domain.RoleEditor, "puesto", "create"},
	{domain.RoleEditor, "puesto", "update"},
	{domain.RoleEditor, "puesto", "delete"},
	{domain.RoleEditor, "location", "read"},
	{domain.RoleEditor, "user", "read"},
	{domain.RoleEditor, "attendance", "records"},
	{domain.RoleEditor, "attendance", "report"},

	{domain.RoleUsuario, "attendance", "locations"},
	{domain.RoleUsuario, "attendance", "check_in"},
	{domain.RoleUsuario, "attendance", "today"},
	{domain.RoleUsuario, "attendance", "position"},
	{domain.RoleUsuario, "attendance", "verify_site"},
	{domain.RoleUsuario, "collaborator", "verify"},
}
