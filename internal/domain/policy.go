package domain

// Operation names every role-gated action in the system. Handlers check
// permissions through one Policy table instead of per-endpoint role checks.
type Operation string

const (
	OpSubmitRecord    Operation = "customers.submit"
	OpListRecords     Operation = "customers.list"
	OpViewOwnRecord   Operation = "customers.view_own"
	OpSetRecordStatus Operation = "customers.set_status"
	OpListUsers       Operation = "users.list"
	OpSetUserRole     Operation = "users.set_role"
)

// Policy maps (operation, role) to allow/deny.
type Policy struct {
	table map[Operation]map[Role]bool
}

// NewPolicy builds the authorization table. submitAnyRole opens OpSubmitRecord
// to every authenticated role; the default restricts it to customers.
func NewPolicy(submitAnyRole bool) *Policy {
	p := &Policy{table: map[Operation]map[Role]bool{
		OpSubmitRecord:    {RoleCustomer: true},
		OpListRecords:     {RoleAdmin: true, RoleEmployee: true},
		OpViewOwnRecord:   {RoleCustomer: true},
		OpSetRecordStatus: {RoleAdmin: true, RoleEmployee: true},
		OpListUsers:       {RoleAdmin: true},
		OpSetUserRole:     {RoleAdmin: true},
	}}
	if submitAnyRole {
		p.table[OpSubmitRecord] = map[Role]bool{
			RoleAdmin: true, RoleEmployee: true, RoleCustomer: true,
		}
	}
	return p
}

// Allows reports whether role may perform op.
func (p *Policy) Allows(op Operation, role Role) bool {
	return p.table[op][role]
}
