package util

const (
	EMPLOYEE_NOT_FOUND           = "employee not found"
	EMPLOYEE_NOT_ACTIVE          = "employee is not active"
	USER_NOT_FOUND               = "user not found"
	EMAIL_ALREADY_EXISTS         = "email already exists in this organization"
	EMPLOYEE_CODE_ALREADY_EXISTS = "employee code already exists in this organization"
	INVALID_CREDENTIALS          = "invalid email or password"
	ACCOUNT_BLOCKED              = "account is blocked, contact your administrator"
	ACCOUNT_NOT_ACTIVE           = "account is not active"
	INVALID_EMPLOYEE_TYPE        = "employee type must be full_time, part_time, contract or intern"
	INVALID_USER_STATUS          = "status must be active, inactive or suspended"
	UNKNOWN_ROLE_LEVEL           = "no role with this level exists in the organization"
	CANNOT_DELETE_SELF           = "you cannot delete your own account"
	MANAGER_NOT_FOUND            = "reporting manager not found"

	ORGANIZATION_CODE_REQUIRED = "organization code is required"
	ORGANIZATION_CODE_INVALID  = "organization code must be 2-10 uppercase letters or digits"
	ORGANIZATION_NOT_FOUND     = "organization not found"
	ORGANIZATION_EXISTS        = "organization code already exists"
	ORGANIZATION_MISMATCH      = "organization code does not match the authenticated user"

	ROLE_NOT_FOUND           = "role not found"
	ROLE_NAME_ALREADY_EXISTS = "role name already exists in this organization"
	SYSTEM_ROLE_IMMUTABLE    = "system roles cannot be modified"
	ROLE_IN_USE              = "role is assigned to users and cannot be deleted"
	INVALID_ROLE_LEVEL       = "role level must be between 1 and 100"

	PERMISSION_NOT_FOUND         = "permission not found"
	PERMISSION_ALREADY_EXISTS    = "permission already exists"
	PERMISSIONS_ALREADY_ASSIGNED = "all permissions already assigned"
	SYSTEM_PERMISSION_IMMUTABLE  = "system permissions cannot be modified"
	PERMISSION_IN_USE            = "permission is assigned to roles and cannot be deleted"

	ATTENDANCE_NOT_FOUND      = "attendance record not found"
	NO_OPEN_SESSION           = "no open session for today"
	MISSING_CHECK_IN          = "attendance record has no check-in"
	ALREADY_CHECKED_OUT       = "attendance record is already checked out"
	CHECK_OUT_BEFORE_CHECK_IN = "check-out time must be after check-in time"
	ATTENDANCE_BUSY           = "attendance record was updated concurrently, please retry"

	LEAVE_TYPE_NOT_FOUND       = "leave type not found"
	LEAVE_TYPE_EXISTS          = "leave type already exists"
	LEAVE_TYPE_IN_USE          = "leave type has applications and cannot be deleted"
	LEAVE_NOT_FOUND            = "leave application not found"
	LEAVE_OVERLAP              = "leave overlaps an existing application"
	LEAVE_INVALID_RANGE        = "end date must not be before start date"
	LEAVE_INSUFFICIENT_BALANCE = "insufficient leave balance"
	LEAVE_NOT_PENDING          = "leave application is not pending"
	LEAVE_ALREADY_STARTED      = "leave has already started and cannot be cancelled"

	PAYROLL_NOT_FOUND      = "payroll record not found"
	PAYROLL_EXISTS         = "payroll already generated for this period"
	PAYROLL_PAID           = "paid payroll cannot be deleted"
	PAYROLL_BAD_TRANSITION = "payroll status transition not allowed"

	DOCUMENT_NOT_FOUND       = "document not found"
	STORAGE_NOT_CONFIGURED   = "document storage is not configured"
	INSUFFICIENT_AUTHORITY   = "insufficient authority"
	INVALID_ID               = "invalid id"
	PASSWORD_TOO_SHORT       = "password must be at least 8 characters long"
	PASSWORD_MISMATCH        = "current password is incorrect"
	INVALID_TIMEZONE         = "invalid timezone"
	INVALID_PERIOD           = "month must be 1-12 and year 2000-2100"
	NEGATIVE_NET_SALARY      = "deductions exceed gross salary"
	INVALID_COMPONENT        = "pay component type must be fixed or percentage"
	LEAVE_TYPE_INACTIVE      = "leave type is not active"
	LEAVE_NOT_CANCELLABLE    = "only pending or approved leave can be cancelled"
	REJECTION_REASON         = "rejection reason is required"
	INVALID_DATA_ACCESS      = "data access level must be ALL, TEAM or OWN"
	INVALID_MODULE           = "invalid permission module"
	INVALID_ACTION           = "invalid permission action"
	INVALID_CATEGORY         = "invalid document category"
	PERMISSIONS_NOT_ASSIGNED = "none of the permissions are assigned to the role"
	INTERNAL_SERVER_ERROR    = "internal server error"
)
