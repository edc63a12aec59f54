package leads

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		Name:             "Asha",
		Email:            "asha@example.org",
		UserType:         Student,
		InstitutionName:  "IIM Ahmedabad",
		PurposeOfContact: "collaboration",
		Comment:          "Hello",
	}
}

func TestCheckMessages(t *testing.T) {
	v := NewValidator()
	cases := []struct {
		name    string
		mutate  func(*Form)
		comment bool
		want    string
	}{
		{"valid", func(*Form) {}, true, ""},
		{"missing name", func(f *Form) { f.Name = "" }, false, MsgRequired},
		{"missing purpose", func(f *Form) { f.PurposeOfContact = "" }, false, MsgRequired},
		{"unknown user type", func(f *Form) { f.UserType = "admin" }, false, MsgRequired},
		{"comment required", func(f *Form) { f.Comment = "" }, true, MsgRequired},
		{"comment optional", func(f *Form) { f.Comment = "" }, false, ""},
		{"bad email", func(f *Form) { f.Email = "asha@" }, false, MsgEmail},
		{"student without institution", func(f *Form) { f.InstitutionName = "" }, false, MsgInstitution},
		{"professional without organization", func(f *Form) {
			f.UserType = Professional
			f.InstitutionName = ""
		}, false, MsgOrganization},
		{"other without description", func(f *Form) { f.UserType = Other }, false, MsgRole},
		{"missing field beats bad email", func(f *Form) {
			f.Name = ""
			f.Email = "nope"
		}, false, MsgRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)
			assert.Equal(t, tc.want, v.Check(f, tc.comment))
		})
	}
}

func TestPayloadKeepsOnlyMatchingDetail(t *testing.T) {
	f := validForm()
	f.OrganizationName = "RBI"
	f.OtherDescription = "Journalist"

	p := f.Payload()
	assert.Equal(t, "IIM Ahmedabad", p.InstitutionName)
	assert.Empty(t, p.OrganizationName)
	assert.Empty(t, p.OtherDescription)
	assert.Equal(t, "student", p.UserType)

	f.UserType = Other
	p = f.Payload()
	assert.Empty(t, p.InstitutionName)
	assert.Equal(t, "Journalist", p.OtherDescription)
}

func TestFormFromRequestTrims(t *testing.T) {
	body := url.Values{
		"name":               {"  Asha "},
		"email":              {"asha@example.org "},
		"user_type":          {"professional"},
		"organization_name":  {" NIPFP"},
		"purpose_of_contact": {"general_inquiry"},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, req.ParseForm())

	f := FormFromRequest(req)
	assert.Equal(t, "Asha", f.Name)
	assert.Equal(t, Professional, f.UserType)
	assert.Equal(t, "NIPFP", f.OrganizationName)
	assert.Equal(t, "", NewValidator().Check(f, false))
}
