// The shell is the public marketplace: catalog landing page plus the
// central sign-in and sign-up pages the other front ends redirect to.
package main

import (
	"log"

	webapp "github.com/adrsy6394/SkillSpring/apps/web"
	"github.com/adrsy6394/SkillSpring/core"
)

func main() {
	err := webapp.Run(func(conf *core.Config) webapp.Deployment {
		return webapp.Deployment{
			Name:       conf.AppName,
			BaseURL:    conf.Apps.ShellURL,
			PublicHome: true,
			AuthPages:  true,
		}
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
