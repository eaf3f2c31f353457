// The admin front end: platform operations dashboard.
package main

import (
	"log"

	webapp "github.com/adrsy6394/SkillSpring/apps/web"
	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
)

func main() {
	err := webapp.Run(func(conf *core.Config) webapp.Deployment {
		return webapp.Deployment{
			Name:         "Admin",
			BaseURL:      conf.Apps.AdminURL,
			RequiredRole: user.RoleAdmin,
		}
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
