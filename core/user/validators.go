package user

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/adrsy6394/SkillSpring/core"
)

var (
	anyRoleTag  = "anyrole"
	anyRoleText = "invalid role"

	signupRoleTag  = "signuprole"
	signupRoleText = "role must be one of: student, instructor"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityTag  = "pwdcplx"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"

	pwdNoCommonTag  = "pwdnocommon"
	pwdNoCommonText = "password is too common"
	commonPasswords []string // loaded from assets/common-passwords.txt
)

func init() {
	loadCommonPasswords()

	// register validators
	_ = core.Validate.RegisterValidation(anyRoleTag, anyRoleValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, anyRoleTag, anyRoleText)

	_ = core.Validate.RegisterValidation(signupRoleTag, signupRoleValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, signupRoleTag, signupRoleText)

	core.Validate.RegisterStructValidation(userStructValidation, NewUser{})
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdNoCommonTag, pwdNoCommonText)
}

func loadCommonPasswords() {
	pwdAssetPath := filepath.Join(core.Getwd(), "assets", "common-passwords.txt")
	if file, err := os.Open(pwdAssetPath); err == nil {
		//goland:noinspection GoUnhandledErrorResult
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if pwd := strings.ToLower(strings.TrimSpace(scanner.Text())); pwd != "" {
				commonPasswords = append(commonPasswords, pwd)
			}
		}
	}
	sort.Strings(commonPasswords)
}

// Custom Validators

// anyRoleValidation checks that the provided role is a known role.
func anyRoleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

// signupRoleValidation restricts self-service sign-up to non-admin roles.
func signupRoleValidation(fl validator.FieldLevel) bool {
	role := Role(fl.Field().String())
	for _, r := range SignupRoles {
		if role == r {
			return true
		}
	}
	return false
}

// userStructValidation does struct level validation on NewUser.
func userStructValidation(sl validator.StructLevel) {
	if nu, ok := sl.Current().Interface().(NewUser); ok {
		validatePassword(nu.Password, nu.FullName, nu.Email, sl)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
// - no common password
func validatePassword(pwd, name, email string, sl validator.StructLevel) {
	reportErr := func(tag string) {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}

	var (
		digitCount                             int
		hasUpper, hasLower, hasDig, hasSpecial bool
	)

	pwdLen := len(pwd)
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}
	for _, char := range []rune(pwd) {
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	hasDig = digitCount > 0
	hasSpecial = specialRegex.MatchString(pwd)
	if !(hasUpper && hasLower && hasDig && hasSpecial) {
		reportErr(pwdComplexityTag)
		return
	}

	// - no user attrs similarity
	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	if getRatio(pwd, name) >= pwdMaxSim || getRatio(pwd, email) >= pwdMaxSim {
		reportErr(pwdAttrSimTag)
		return
	}

	// - no common passwords
	lpwd := strings.ToLower(pwd)
	if idx := sort.SearchStrings(commonPasswords, lpwd); idx < len(commonPasswords) {
		if match := commonPasswords[idx]; lpwd == match {
			reportErr(pwdNoCommonTag)
			return
		}
	}
}
