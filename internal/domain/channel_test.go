package domain

import "testing"

func TestChannelURL(t *testing.T) {
	got := ChannelURL("UCabc123")
	want := "https://www.youtube.com/channel/UCabc123"
	if got != want {
		t.Errorf("ChannelURL() = %q, want %q", got, want)
	}
}

func TestChannelCandidateText(t *testing.T) {
	tests := []struct {
		name      string
		candidate ChannelCandidate
		want      string
	}{
		{
			name: "all fields",
			candidate: ChannelCandidate{
				Title:               "Happy Kids",
				Description:         "Songs for toddlers",
				BrandingDescription: "Family friendly",
			},
			want: "Happy Kids Songs for toddlers Family friendly",
		},
		{
			name: "absent fields contribute nothing",
			candidate: ChannelCandidate{
				Title:               "Happy Kids",
				BrandingDescription: "Family friendly",
			},
			want: "Happy Kids Family friendly",
		},
		{
			name:      "title only",
			candidate: ChannelCandidate{Title: "Happy Kids"},
			want:      "Happy Kids",
		},
		{
			name:      "empty",
			candidate: ChannelCandidate{},
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.candidate.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}
