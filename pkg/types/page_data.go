package types

import "html/template"

type NavbarData struct {
	IsAuthenticated bool
	IsAdmin         bool
	UserID          string
	UserEmail       string
	UserName        string
}

type PageDataSetter interface {
	SetNavbarData(data NavbarData)
	SetCSRFField(field template.HTML)
}

type BasePageData struct {
	Title     string
	Notice    string
	Error     string
	Navbar    NavbarData
	CSRFField template.HTML
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

func (d *BasePageData) SetCSRFField(field template.HTML) {
	d.CSRFField = field
}

type LoginPageData struct {
	BasePageData
	Email string
}
