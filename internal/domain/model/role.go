package model

import "fmt"

// ロールは閉じた列挙。DBにはrole_id(int)で保存
type Role int

const (
	RoleAdmin    Role = 1
	RoleOwner    Role = 2
	RoleCustomer Role = 3
)

// 全ロール（権限表の網羅チェックに使う）
var AllRoles = []Role{RoleAdmin, RoleOwner, RoleCustomer}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleOwner:
		return "OWNER"
	case RoleCustomer:
		return "CUSTOMER"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleCustomer:
		return true
	}
	return false
}
