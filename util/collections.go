package util

const (
	UserCollection             = "USERS"
	OrganizationCollection     = "ORGANIZATIONS"
	RoleCollection             = "ROLES"
	PermissionCollection       = "PERMISSIONS"
	AttendanceCollection       = "ATTENDANCE"
	LeaveTypeCollection        = "LEAVE_TYPES"
	LeaveApplicationCollection = "LEAVE_APPLICATIONS"
	PayrollCollection          = "PAYROLL"
	DocumentCollection         = "DOCUMENTS"
)

// Cache key prefixes.
const (
	RolePermissionsKey = "rolePerms:"
	OrganizationKey    = "organization:"
)

// Gin context keys set by the authorization middlewares.
const (
	ClaimsKey           = "claims"
	OrganizationCodeKey = "organizationCode"
	RequestIDKey        = "requestId"
)
