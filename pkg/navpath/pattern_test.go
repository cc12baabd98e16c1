package navpath

import "testing"

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern    string
		location   string
		wantMatch  bool
		wantParams map[string]string
	}{
		{pattern: "/", location: "/", wantMatch: true, wantParams: map[string]string{}},
		{pattern: "/users", location: "/users", wantMatch: true, wantParams: map[string]string{}},
		{pattern: "/users", location: "/user", wantMatch: false},
		{pattern: "/users", location: "/users/42", wantMatch: false},
		{pattern: "/users/:id", location: "/users/42", wantMatch: true, wantParams: map[string]string{"id": "42"}},
		{pattern: "/users/:id", location: "/users", wantMatch: false},
		{pattern: "/users/:id/posts/:post", location: "/users/42/posts/7", wantMatch: true, wantParams: map[string]string{"id": "42", "post": "7"}},
		{pattern: "/files/*rest", location: "/files/a/b/c", wantMatch: true, wantParams: map[string]string{"rest": "a/b/c"}},
		{pattern: "/files/*rest", location: "/files", wantMatch: false},
		{pattern: "/users/:id", location: "/users/42?tab=posts", wantMatch: true, wantParams: map[string]string{"id": "42"}},
		{pattern: "/users/:id", location: "/users/jo%20anne", wantMatch: true, wantParams: map[string]string{"id": "jo anne"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.location, func(t *testing.T) {
			p := MustPattern(tt.pattern)
			params, ok := p.Match(tt.location)
			if ok != tt.wantMatch {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.location, ok, tt.wantMatch)
			}
			if !ok {
				return
			}
			if len(params) != len(tt.wantParams) {
				t.Fatalf("params = %v, want %v", params, tt.wantParams)
			}
			for k, v := range tt.wantParams {
				if params[k] != v {
					t.Errorf("params[%q] = %q, want %q", k, params[k], v)
				}
			}
		})
	}
}

func TestNewPatternRejectsBadShapes(t *testing.T) {
	if _, err := NewPattern("users/:id"); err == nil {
		t.Error("pattern without leading slash should be rejected")
	}
	if _, err := NewPattern("/files/*rest/more"); err == nil {
		t.Error("catch-all before final segment should be rejected")
	}
}

func TestMustPatternPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustPattern should panic on a bad pattern")
		}
	}()
	MustPattern("bad")
}
