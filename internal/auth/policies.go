package auth

import (
	"fmt"
	"go-portfolio-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures the baseline rules exist and grants the admin
// role to every configured subject. It is idempotent and runs on every start.
func SeedDefaultPolicies(e casbin.IEnforcer, adminSubjects []string, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		{RoleAdmin, "/admin/api/*", "(GET)|(POST)|(PUT)"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	for _, subject := range adminSubjects {
		if subject == "" {
			continue
		}
		if has, _ := e.HasRoleForUser(subject, RoleAdmin); !has {
			if _, err := e.AddRoleForUser(subject, RoleAdmin); err != nil {
				log.Error(err, fmt.Sprintf("Failed to grant admin role to %s", subject))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
