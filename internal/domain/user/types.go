package user

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// rank orders roles for "at least" checks; unknown roles rank zero.
var rank = map[Role]int{
	RoleCustomer: 1,
	RoleAdmin:    2,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants. An unknown role never does.
func (r Role) AtLeast(min Role) bool {
	have, want := rank[r], rank[min]
	return have > 0 && want > 0 && have >= want
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
