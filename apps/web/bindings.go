package webapp

import (
	"github.com/adrsy6394/SkillSpring/core"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	// Redirect is the return path carried through the sign-in page.
	Redirect string `json:"redirect" form:"redirect"`
}

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}
