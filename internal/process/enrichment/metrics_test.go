package enrichment

import "testing"

func TestComputeTextMetrics(t *testing.T) {
	tests := []struct {
		name                        string
		title, description, content string
		want                        TextMetrics
	}{
		{
			name:        "accented lengths count characters",
			title:       "Título",
			description: "Descrição do artigo",
			content:     "Conteúdo",
			want:        TextMetrics{TitleLength: 6, DescriptionLength: 19, ContentLength: 8, WordCount: 5},
		},
		{
			name:        "word count spans fields",
			title:       "Um dois",
			description: "três quatro",
			content:     "cinco",
			want:        TextMetrics{TitleLength: 7, DescriptionLength: 11, ContentLength: 5, WordCount: 5},
		},
		{
			name: "empty",
			want: TextMetrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTextMetrics(tt.title, tt.description, tt.content)
			if got != tt.want {
				t.Errorf("ComputeTextMetrics() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
