package auth

import "artist-management/internal/domain"

// Policy 角色判断；角色之间没有继承关系，super_admin 也不满足 IsManager
type Policy func(c *Claims) bool

func IsSuperAdmin(c *Claims) bool { return c != nil && c.Role == domain.RoleSuperAdmin }
func IsManager(c *Claims) bool    { return c != nil && c.Role == domain.RoleArtistManager }
func IsArtist(c *Claims) bool     { return c != nil && c.Role == domain.RoleArtist }

// AnyOf 多角色接口用 OR 组合
func AnyOf(ps ...Policy) Policy {
	return func(c *Claims) bool {
		for _, p := range ps {
			if p(c) {
				return true
			}
		}
		return false
	}
}

// Authenticated 任何已登录用户
func Authenticated(c *Claims) bool { return c != nil }
