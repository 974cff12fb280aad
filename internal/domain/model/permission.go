package model

type Permission int

const (
	PermManageUsers Permission = iota + 1

	PermCreateField
	PermUpdateField
	PermDeleteField
	PermApproveField

	PermCreateBooking
	PermViewOwnBookings
	PermViewFieldBookings
	PermViewAllBookings

	PermViewOwnPayments
	PermViewFieldPayments
	PermViewAllPayments
	PermProcessRefund

	PermCreateReview
	PermUpdateOwnReview
	PermDeleteReview

	permissionCount = iota
)

var permissionNames = [...]string{
	PermManageUsers:       "manage_users",
	PermCreateField:       "create_field",
	PermUpdateField:       "update_field",
	PermDeleteField:       "delete_field",
	PermApproveField:      "approve_field",
	PermCreateBooking:     "create_booking",
	PermViewOwnBookings:   "view_own_bookings",
	PermViewFieldBookings: "view_field_bookings",
	PermViewAllBookings:   "view_all_bookings",
	PermViewOwnPayments:   "view_own_payments",
	PermViewFieldPayments: "view_field_payments",
	PermViewAllPayments:   "view_all_payments",
	PermProcessRefund:     "process_refund",
	PermCreateReview:      "create_review",
	PermUpdateOwnReview:   "update_own_review",
	PermDeleteReview:      "delete_review",
}

func (p Permission) String() string {
	if p <= 0 || int(p) >= len(permissionNames) {
		return "unknown"
	}
	return permissionNames[p]
}

// ロール→権限の固定表。起動時に一度だけ組み立て、以後変更しない
var rolePermissions = buildRolePermissions()

func permissionsFor(r Role) []Permission {
	switch r {
	case RoleAdmin:
		return []Permission{
			PermManageUsers,
			PermCreateField,
			PermUpdateField,
			PermDeleteField,
			PermApproveField,
			PermCreateBooking,
			PermViewAllBookings,
			PermViewAllPayments,
			PermProcessRefund,
			PermDeleteReview,
		}
	case RoleOwner:
		return []Permission{
			PermCreateField,
			PermUpdateField,
			PermCreateBooking,
			PermViewFieldBookings,
			PermViewFieldPayments,
		}
	case RoleCustomer:
		return []Permission{
			PermCreateBooking,
			PermViewOwnBookings,
			PermViewOwnPayments,
			PermCreateReview,
			PermUpdateOwnReview,
		}
	}
	return nil
}

func buildRolePermissions() map[Role][permissionCount + 1]bool {
	table := make(map[Role][permissionCount + 1]bool, len(AllRoles))
	for _, r := range AllRoles {
		var set [permissionCount + 1]bool
		for _, p := range permissionsFor(r) {
			set[p] = true
		}
		table[r] = set
	}
	return table
}

// 未知のロールは権限なし
func HasPermission(r Role, p Permission) bool {
	if p <= 0 || int(p) > permissionCount {
		return false
	}
	set, ok := rolePermissions[r]
	if !ok {
		return false
	}
	return set[p]
}

// ロールが持つ権限の一覧（コピーを返す）
func PermissionsOf(r Role) []Permission {
	return append([]Permission(nil), permissionsFor(r)...)
}
