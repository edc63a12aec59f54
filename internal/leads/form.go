// Package leads holds the visitor details form shared by the contact page and
// the gated resource downloads.
package leads

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UserType is the visitor role picked on the form.
type UserType string

const (
	Student      UserType = "student"
	Professional UserType = "professional"
	Other        UserType = "other"
)

// Option is one entry of a select box.
type Option struct {
	Value string
	Label string
}

// UserTypes lists the role choices in display order.
var UserTypes = []Option{
	{Value: string(Student), Label: "Student"},
	{Value: string(Professional), Label: "Professional"},
	{Value: string(Other), Label: "Other"},
}

// Purposes lists the purpose-of-contact choices in display order.
var Purposes = []Option{
	{Value: "general_inquiry", Label: "General Inquiry"},
	{Value: "collaboration", Label: "Collaboration"},
	{Value: "job_opportunity", Label: "Job Opportunity"},
	{Value: "other", Label: "Other"},
}

// Validation messages shown above the form.
const (
	MsgRequired     = "All fields are required."
	MsgEmail        = "Please enter a valid email address."
	MsgInstitution  = "Please enter your institution name (Student)."
	MsgOrganization = "Please enter your organization name (Professional)."
	MsgRole         = "Please describe your role (Other)."
)

// Form is the submitted visitor details. Only the detail field matching
// UserType is required.
type Form struct {
	Name             string   `validate:"required"`
	Email            string   `validate:"required,email"`
	UserType         UserType `validate:"required,oneof=student professional other"`
	InstitutionName  string   `validate:"required_if=UserType student"`
	OrganizationName string   `validate:"required_if=UserType professional"`
	OtherDescription string   `validate:"required_if=UserType other"`
	PurposeOfContact string   `validate:"required,oneof=general_inquiry collaboration job_opportunity other"`
	Comment          string
}

// FormFromRequest reads and trims the posted fields. The caller must have
// parsed the form.
func FormFromRequest(r *http.Request) Form {
	value := func(key string) string { return strings.TrimSpace(r.PostFormValue(key)) }
	return Form{
		Name:             value("name"),
		Email:            value("email"),
		UserType:         UserType(value("user_type")),
		InstitutionName:  value("institution_name"),
		OrganizationName: value("organization_name"),
		OtherDescription: value("other_description"),
		PurposeOfContact: value("purpose_of_contact"),
		Comment:          value("comment"),
	}
}

// Validator checks forms. The zero value is not usable; call NewValidator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator constructs a Validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Check returns the single message to show for f, or "" when f may be sent.
// A missing base field wins over a malformed email, which wins over a missing
// role detail.
func (v *Validator) Check(f Form, requireComment bool) string {
	err := v.validate.Struct(f)
	var fieldErrs validator.ValidationErrors
	if err != nil && !errors.As(err, &fieldErrs) {
		return MsgRequired
	}
	missing := requireComment && f.Comment == ""
	var emailBad bool
	var detail string
	for _, fe := range fieldErrs {
		switch {
		case fe.Tag() == "required":
			missing = true
		case fe.Tag() == "oneof":
			// An unknown option behaves like no selection.
			missing = true
		case fe.Tag() == "email":
			emailBad = true
		case fe.Tag() == "required_if" && detail == "":
			detail = detailMessage(fe.Field())
		}
	}
	switch {
	case missing:
		return MsgRequired
	case emailBad:
		return MsgEmail
	default:
		return detail
	}
}

func detailMessage(field string) string {
	switch field {
	case "InstitutionName":
		return MsgInstitution
	case "OrganizationName":
		return MsgOrganization
	default:
		return MsgRole
	}
}

// Payload is the JSON body accepted by the contact and download endpoints.
type Payload struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	UserType         string `json:"user_type"`
	InstitutionName  string `json:"institution_name"`
	OrganizationName string `json:"organization_name"`
	OtherDescription string `json:"other_description"`
	PurposeOfContact string `json:"purpose_of_contact"`
	Comment          string `json:"comment"`
}

// Payload builds the request body. Detail fields that do not match the user
// type are sent empty.
func (f Form) Payload() Payload {
	p := Payload{
		Name:             f.Name,
		Email:            f.Email,
		UserType:         string(f.UserType),
		PurposeOfContact: f.PurposeOfContact,
		Comment:          f.Comment,
	}
	switch f.UserType {
	case Student:
		p.InstitutionName = f.InstitutionName
	case Professional:
		p.OrganizationName = f.OrganizationName
	case Other:
		p.OtherDescription = f.OtherDescription
	}
	return p
}

// View backs the shared "partials/lead-fields" template.
type View struct {
	Form      Form
	Error     string
	UserTypes []Option
	Purposes  []Option
}

// NewView pairs a form with the message to show above it.
func NewView(f Form, message string) View {
	return View{Form: f, Error: message, UserTypes: UserTypes, Purposes: Purposes}
}
