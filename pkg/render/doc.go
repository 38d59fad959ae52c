// Package render defines the renderer contract shared by the HTML, JSON and
// terminal front ends, along with the page values they draw, theme resolution
// and the submissions table.
package render
