package touchosc

// The getters below panic with an *AddressError if addr was never
// registered. A registered address of a different kind yields the
// zero value.

func (c *Client) Switch(addr string) bool {
	if s, ok := c.reg.lookup("switch", addr).(*switchStore); ok {
		return s.state
	}
	return false
}

func (c *Client) Scalar(addr string) float64 {
	return c.scalar("scalar", addr, KindScalar)
}

func (c *Client) Angle(addr string) float64 {
	return c.scalar("angle", addr, KindAngle)
}

func (c *Client) Radial(addr string) float64 {
	return c.scalar("radial", addr, KindRadial)
}

func (c *Client) scalar(op, addr string, k Kind) float64 {
	if s, ok := c.reg.lookup(op, addr).(*scalarStore); ok && s.k == k {
		return s.value
	}
	return 0
}

func (c *Client) Point(addr string) Point {
	if s, ok := c.reg.lookup("point", addr).(*pointStore); ok {
		return s.value
	}
	return Point{}
}

// Polar returns the radius in X and the angle in Y.
func (c *Client) Polar(addr string) Point {
	if s, ok := c.reg.lookup("polar", addr).(*polarStore); ok {
		return s.value
	}
	return Point{}
}

func (c *Client) Index(addr string) int32 {
	if s, ok := c.reg.lookup("index", addr).(*indexStore); ok {
		return s.value
	}
	return 0
}

// Array returns one element of an array control. addr is the element
// address, base/N with N counted from 1.
func (c *Client) Array(addr string) float64 {
	if a, n, ok := c.reg.resolveArray(addr); ok {
		e, _ := a.element(n)
		return e.value
	}
	c.reg.lookup("array", addr)
	return 0
}

// Kind reports the kind registered at addr.
func (c *Client) Kind(addr string) (Kind, bool) {
	st, ok := c.reg.resolveExact(addr)
	if !ok {
		return 0, false
	}
	return st.kind(), true
}

// Size returns the number of buttons of an index control or elements
// of an array control, and 0 for other kinds.
func (c *Client) Size(addr string) int {
	switch s := c.reg.lookup("size", addr).(type) {
	case *indexStore:
		return s.size
	case *arrayStore:
		return len(s.elems)
	}
	return 0
}

// Value returns the current value of any control as bool, float64,
// Point, int32 or []float64 depending on its kind.
func (c *Client) Value(addr string) any {
	if a, n, ok := c.reg.resolveArray(addr); ok {
		e, _ := a.element(n)
		return e.value
	}
	return c.reg.lookup("value", addr).current()
}

// Addresses returns the registered addresses in sorted order.
func (c *Client) Addresses() []string {
	return c.reg.addresses()
}
