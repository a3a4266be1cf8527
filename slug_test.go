// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marked

import "testing"

func TestSlug(t *testing.T) {
	s := NewSlugger()
	for _, tt := range []struct {
		in, out string
	}{
		{"Hello World", "hello-world"},
		{"Hello World", "hello-world-1"},
		{"hello-world", "hello-world-2"},
		{"What's new?", "whats-new"},
		{"<b>Bold</b> text", "bold-text"},
		{"  Trim  ", "trim"},
		{"ÜBER", "über"},
		{"foo", "foo"},
		{"foo 1", "foo-1"},
		{"foo", "foo-2"},
	} {
		if out := s.Slug(tt.in); out != tt.out {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, out, tt.out)
		}
	}
}
