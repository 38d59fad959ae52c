package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/element"
	"github.com/goliatone/go-formbuilder/pkg/session"
)

// Renderer turns a Page into bytes (HTML, JSON, terminal output).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options RenderOptions) ([]byte, error)
}

// Page is one of the screens a renderer can draw. The set is closed.
type Page interface {
	page()
}

// DesignerPage previews a form while it is being authored.
type DesignerPage struct {
	FormID      int64
	Name        string
	Description string
	Published   bool
	ShareURL    string
	Elements    []element.Instance
}

// FillInPage draws the live form for a fill-in session.
type FillInPage struct {
	Title   string
	Session *session.Session
}

// PropertiesPage is the attribute editor for one element. Error carries a
// message from the last rejected apply.
type PropertiesPage struct {
	FormID  int64
	Element element.Instance
	Error   string
}

// SubmissionsPage is the read-only table of stored submissions.
type SubmissionsPage struct {
	Name  string
	Table SubmissionTable
}

// ThankYouPage is shown once a submission has been stored.
type ThankYouPage struct {
	Title   string
	Message string
}

func (DesignerPage) page()    {}
func (FillInPage) page()      {}
func (PropertiesPage) page()  {}
func (SubmissionsPage) page() {}
func (ThankYouPage) page()    {}
