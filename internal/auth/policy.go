package auth

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/soporteit/support-desk/internal/domain"
)

// Resources and actions checked by the role gates.
const (
	ResourceTickets  = "tickets"
	ResourceNotes    = "notes"
	ResourceHours    = "hours"
	ResourceServices = "services"
	ResourceUsers    = "users"
	ResourceWhatsApp = "whatsapp"

	ActionRead    = "read"
	ActionWrite   = "write"
	ActionArchive = "archive"
	ActionDelete  = "delete"
	ActionManage  = "manage"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

// Policy evaluates role permissions with an in-memory casbin enforcer.
type Policy struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
}

// NewPolicy loads the default permission table. Admins inherit every
// technician permission.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	tech := string(domain.RoleTechnician)
	admin := string(domain.RoleAdmin)
	rules := [][]string{
		{tech, ResourceTickets, ActionRead},
		{tech, ResourceTickets, ActionWrite},
		{tech, ResourceNotes, ActionRead},
		{tech, ResourceNotes, ActionWrite},
		{tech, ResourceHours, ActionRead},
		{tech, ResourceHours, ActionWrite},
		{tech, ResourceWhatsApp, ActionRead},
		{tech, ResourceWhatsApp, ActionWrite},
		{tech, ResourceServices, ActionRead},
		{tech, ResourceUsers, ActionRead},
		{admin, "*", "*"},
	}
	for _, rule := range rules {
		if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return nil, fmt.Errorf("failed to add policy: %w", err)
		}
	}
	if _, err := enforcer.AddGroupingPolicy(admin, tech); err != nil {
		return nil, fmt.Errorf("failed to add role inheritance: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform action on resource.
func (p *Policy) Allowed(role domain.Role, resource, action string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	allowed, err := p.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}
