// The instructor front end: course authoring and earnings.
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
			Name:         "Instructor Studio",
			BaseURL:      conf.Apps.InstructorURL,
			RequiredRole: user.RoleInstructor,
		}
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
