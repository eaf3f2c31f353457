// The student front end: course player, progress and checkout.
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
			Name:         "My Learning",
			BaseURL:      conf.Apps.StudentURL,
			RequiredRole: user.RoleStudent,
		}
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
