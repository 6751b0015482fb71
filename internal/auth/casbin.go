package auth

import (
	"fmt"
	"go-portfolio-app/internal/config"
	"go-portfolio-app/internal/data"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// Roles known to the policy set.
const (
	RoleAnonymous = "anonymous"
	RoleAdmin     = "admin"
)

// modelText is an RBAC model matching request paths with keyMatch2 and
// methods with a regular expression.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// NewModel returns the authorization model.
func NewModel() (model.Model, error) {
	return model.NewModelFromString(modelText)
}

// NewEnforcer creates a Casbin enforcer whose policies live in the
// casbin_rule table of the application database, and loads them.
func NewEnforcer(cfg config.DBConfig) (*casbin.Enforcer, error) {
	dsn, err := data.DriverDSN(cfg)
	if err != nil {
		return nil, err
	}
	m, err := NewModel()
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}

	adapter := sqlxadapter.NewAdapterFromOptions(&sqlxadapter.AdapterOptions{
		DriverName:     cfg.Driver,
		DataSourceName: dsn,
		TableName:      "casbin_rule",
	})

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	return enforcer, nil
}
