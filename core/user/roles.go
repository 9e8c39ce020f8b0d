package user

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var Roles = []Role{
	{Name: "Student", Value: RoleStudent},
	{Name: "Teacher", Value: RoleTeacher},
	{Name: "Admin", Value: RoleAdmin},
}

// Capability names a role-gated action in the app.
type Capability string

const (
	CapAddCourse         Capability = "add-course"
	CapEditCourse        Capability = "edit-course"
	CapManageUsers       Capability = "manage-users"
	CapReviewSubmissions Capability = "review-submissions"
	CapEnroll            Capability = "enroll"
	CapBookmark          Capability = "bookmark"
	CapViewAdminPanel    Capability = "view-admin-panel"
)

// grants maps each role to the set of capabilities it is allowed. Adding a
// capability only ever touches this table, never the call sites.
var grants = map[string][]Capability{
	RoleStudent: {
		CapEnroll,
		CapBookmark,
	},
	RoleTeacher: {
		CapAddCourse,
		CapEditCourse,
		CapReviewSubmissions,
		CapBookmark,
	},
	RoleAdmin: {
		CapAddCourse,
		CapEditCourse,
		CapManageUsers,
		CapReviewSubmissions,
		CapEnroll,
		CapBookmark,
		CapViewAdminPanel,
	},
}

// Permits reports whether the given role is granted the named capability.
// An unknown or empty role is denied everything.
func Permits(role string, cap Capability) bool {
	for _, granted := range grants[role] {
		if granted == cap {
			return true
		}
	}
	return false
}

// Capabilities returns all capabilities granted to the given role.
func Capabilities(role string) []Capability {
	caps := grants[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
