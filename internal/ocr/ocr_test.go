package ocr

import "testing"

func TestIsSupportedImage(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"scan.jpg", true},
		{"scan.JPEG", true},
		{"page.png", true},
		{"old.tiff", true},
		{"anim.gif", true},
		{"doc.pdf", false},
		{"notes.txt", false},
		{"noextension", false},
	}
	for _, c := range cases {
		if got := IsSupportedImage(c.name); got != c.want {
			t.Errorf("IsSupportedImage(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestStem(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/data/scans/page_001.jpg", "page_001"},
		{"page_001.jpg", "page_001"},
		{"archive.tar.gz", "archive.tar"},
		{"noextension", "noextension"},
	}
	for _, c := range cases {
		if got := Stem(c.path); got != c.want {
			t.Errorf("Stem(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
