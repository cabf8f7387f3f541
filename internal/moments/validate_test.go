package moments

import "testing"

func TestValidateImageFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain filename", input: "IMG_1.jpg", want: "IMG_1.jpg"},
		{name: "trims whitespace", input: "  photo.png  ", want: "photo.png"},
		{name: "spaces and dashes allowed", input: "our trip - day 2.webp", want: "our trip - day 2.webp"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "path separator", input: "a/b.jpg", wantErr: true},
		{name: "backslash", input: `a\b.jpg`, wantErr: true},
		{name: "nul byte", input: "a\x00b.jpg", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dotdot", input: "..", wantErr: true},
		{name: "leading dotdot", input: "..jpg", wantErr: true},
		{name: "embedded dotdot", input: "a..b.jpg", wantErr: true},
		{name: "url scheme", input: "http://evil/a.jpg", wantErr: true},
		{name: "query string", input: "a.jpg?x=1", wantErr: true},
		{name: "fragment", input: "a.jpg#frag", wantErr: true},
		{name: "unsupported characters", input: "фото.jpg", wantErr: true},
		{name: "too long", input: pad(256), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateImageFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateImageFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ValidateImageFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func pad(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}

func TestPhotostockBasename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantFull string
		wantBase string
		wantErr  bool
	}{
		{name: "strips extension", input: "IMG_1.jpg", wantFull: "IMG_1.jpg", wantBase: "IMG_1"},
		{name: "no extension", input: "IMG_2", wantFull: "IMG_2", wantBase: "IMG_2"},
		{name: "double extension", input: "a.b.jpg", wantErr: true},
		{name: "space in basename", input: "our trip.jpg", wantErr: true},
		{name: "invalid filename", input: "a/b.jpg", wantErr: true},
		{name: "dot only segments", input: ".jpg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full, base, err := PhotostockBasename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PhotostockBasename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if full != tt.wantFull || base != tt.wantBase {
				t.Errorf("PhotostockBasename(%q) = (%q, %q), want (%q, %q)", tt.input, full, base, tt.wantFull, tt.wantBase)
			}
		})
	}
}

func TestBuildMediaImageURL(t *testing.T) {
	if got := BuildMediaImageURL("IMG_1.jpg"); got != "/api/images/IMG_1" {
		t.Errorf("BuildMediaImageURL() = %q, want /api/images/IMG_1", got)
	}
	if got := BuildMediaImageURL("our trip.jpg"); got != "" {
		t.Errorf("BuildMediaImageURL() with invalid basename = %q, want empty", got)
	}
}
