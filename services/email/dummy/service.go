// Package dummymail provides a no-op email service for tests and tooling
// that must not send anything.
package dummymail

import (
	"github.com/adrsy6394/SkillSpring/core"
)

type service struct{}

var _ core.EmailService = (*service)(nil)

func NewService() core.EmailService { return &service{} }

func (svc service) SendMessages(...*core.EmailMessage) {}
