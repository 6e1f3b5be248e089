package touchosc

import (
	"sort"
	"strconv"
	"strings"
)

// registry is the flat address namespace. Array bases are indexed a
// second time so element addresses resolve without scanning.
type registry struct {
	stores map[string]store
	arrays map[string]*arrayStore
}

func newRegistry() *registry {
	return &registry{
		stores: make(map[string]store),
		arrays: make(map[string]*arrayStore),
	}
}

func (r *registry) register(addr string, st store) error {
	if addr == "" {
		return &AddressError{Op: "register", Addr: addr, Err: ErrInvalidAddress}
	}
	if _, ok := r.stores[addr]; ok {
		return &AddressError{Op: "register", Addr: addr, Err: ErrAddressInUse}
	}
	if _, _, ok := r.resolveArray(addr); ok {
		return &AddressError{Op: "register", Addr: addr, Err: ErrAddressOverlap}
	}
	if a, ok := st.(*arrayStore); ok {
		for key := range r.stores {
			if base, n, ok := splitElement(key); ok && base == addr && n <= len(a.elems) {
				return &AddressError{Op: "register", Addr: addr, Err: ErrAddressOverlap}
			}
		}
		r.arrays[addr] = a
	}
	r.stores[addr] = st
	return nil
}

func (r *registry) resolveExact(addr string) (store, bool) {
	st, ok := r.stores[addr]
	return st, ok
}

// resolveArray matches addr against base/N for a registered array
// base with 1 <= N <= size.
func (r *registry) resolveArray(addr string) (*arrayStore, int, bool) {
	base, n, ok := splitElement(addr)
	if !ok {
		return nil, 0, false
	}
	a, ok := r.arrays[base]
	if !ok {
		return nil, 0, false
	}
	if _, ok := a.element(n); !ok {
		return nil, 0, false
	}
	return a, n, true
}

// lookup panics with an *AddressError when addr was never registered.
func (r *registry) lookup(op, addr string) store {
	st, ok := r.stores[addr]
	if !ok {
		panic(&AddressError{Op: op, Addr: addr, Err: ErrUnknownAddress})
	}
	return st
}

func (r *registry) addresses() []string {
	keys := make([]string, 0, len(r.stores))
	for k := range r.stores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// splitElement splits "base/N" where N is a positive decimal integer
// written without leading zeros.
func splitElement(addr string) (string, int, bool) {
	i := strings.LastIndexByte(addr, '/')
	if i <= 0 || i == len(addr)-1 {
		return "", 0, false
	}
	suffix := addr[i+1:]
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return "", 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 || strconv.Itoa(n) != suffix {
		return "", 0, false
	}
	return addr[:i], n, true
}
