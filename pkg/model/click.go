package model

// Click is one pending user interaction, held on a block until the scheduler
// consumes it. Button, X and Y are short textual tokens as they appeared in
// the click record; they are interpreted downstream, not here.
type Click struct {
	Button string `json:"button"`
	X      string `json:"x"`
	Y      string `json:"y"`
}

// Pending reports whether a click is waiting. An empty button token means
// no click.
func (c Click) Pending() bool {
	return c.Button != ""
}

// Clear resets the click to its empty no-click value.
func (c *Click) Clear() {
	*c = Click{}
}
