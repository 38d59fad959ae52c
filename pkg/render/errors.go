package render

import "errors"

var (
	// ErrUnsupportedPage is returned by renderers for pages they cannot draw.
	ErrUnsupportedPage = errors.New("render: unsupported page")
	// ErrNoSession is returned when a FillInPage carries no session.
	ErrNoSession = errors.New("render: fill-in page without session")
)
