package imagepath

// Cursor walks one image's candidate list. The next candidate only becomes
// current after Fail is called for the previous one.
type Cursor struct {
	candidates []string
	pos        int
}

func NewCursor(candidates []string) *Cursor {
	return &Cursor{candidates: candidates}
}

// Current returns the candidate to attempt, or false once every candidate
// has failed.
func (c *Cursor) Current() (string, bool) {
	if c.pos >= len(c.candidates) {
		return "", false
	}
	return c.candidates[c.pos], true
}

// Fail records that the current candidate did not load and returns the next
// one to try.
func (c *Cursor) Fail() (string, bool) {
	if c.pos < len(c.candidates) {
		c.pos++
	}
	return c.Current()
}

// Exhausted reports whether the image should be dropped.
func (c *Cursor) Exhausted() bool {
	return c.pos >= len(c.candidates)
}

// Remaining lists the candidates after the current one.
func (c *Cursor) Remaining() []string {
	if c.pos+1 >= len(c.candidates) {
		return nil
	}
	rest := make([]string, len(c.candidates)-c.pos-1)
	copy(rest, c.candidates[c.pos+1:])
	return rest
}
