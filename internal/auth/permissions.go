package auth

// Permission strings checked at runtime against a role's permission
// set. The list matches what the frontend knows about.
const (
	PermViewDashboard = "view_dashboard"

	PermViewUsers   = "view_users"
	PermCreateUser  = "create_user"
	PermEditUser    = "edit_user"
	PermDeleteUser  = "delete_user"
	PermManageUsers = "manage_users"

	PermViewRoles   = "view_roles"
	PermCreateRole  = "create_role"
	PermEditRole    = "edit_role"
	PermDeleteRole  = "delete_role"
	PermManageRoles = "manage_roles"

	PermViewProducts  = "view_products"
	PermCreateProduct = "create_product"
	PermEditProduct   = "edit_product"
	PermDeleteProduct = "delete_product"

	PermManageStock = "manage_stock"

	PermViewReports = "view_reports"

	PermViewCatalog   = "view_catalog"
	PermManageCatalog = "manage_catalog"

	PermViewBarcodes = "view_barcodes"
)

// AllPermissions is the full catalog, granted to the seeded Admin role.
var AllPermissions = []string{
	PermViewDashboard,
	PermViewUsers,
	PermCreateUser,
	PermEditUser,
	PermDeleteUser,
	PermManageUsers,
	PermViewRoles,
	PermCreateRole,
	PermEditRole,
	PermDeleteRole,
	PermManageRoles,
	PermViewProducts,
	PermCreateProduct,
	PermEditProduct,
	PermDeleteProduct,
	PermManageStock,
	PermViewReports,
	PermViewCatalog,
	PermManageCatalog,
	PermViewBarcodes,
}

// AdminRoleName is the role whose holders see all users' stock
// movements regardless of filters.
const AdminRoleName = "Admin"
