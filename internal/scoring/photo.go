package scoring

import (
	"strings"

	"github.com/jonathan/profile-optimizer/internal/types"
)

var photoWeights = []factorWeight{
	{"presence", 0.30},
	{"faceSize", 0.20},
	{"imageQuality", 0.20},
	{"attire", 0.15},
	{"expression", 0.10},
	{"background", 0.05},
}

// unknownCategoryScore is used when the image analysis did not classify a trait.
const unknownCategoryScore = 60

var (
	attireScores = map[string]float64{
		"professional":    100,
		"business_casual": 80,
		"casual":          50,
	}
	expressionScores = map[string]float64{
		"smiling": 100,
		"neutral": 70,
		"serious": 50,
	}
	backgroundScores = map[string]float64{
		"plain":   100,
		"office":  80,
		"outdoor": 60,
		"busy":    40,
	}
)

// ScorePhoto scores the profile photo from its image-analysis result.
func (s *Scorer) ScorePhoto(photo *types.PhotoAnalysis) types.ScoreResult {
	if photo == nil {
		return emptyResult("No profile photo")
	}

	b := newResultBuilder()
	b.set("presence", 100, "")
	b.set(faceSizeFactor(photo.FaceRatio))
	b.set(imageQualityFactor(photo.Width, photo.Height, photo.Sharpness))
	b.set(categoryFactor("attire", photo.Attire, attireScores, "Wear professional attire in your photo"))
	b.set(categoryFactor("expression", photo.Expression, expressionScores, "A friendly smile makes your photo more approachable"))
	b.set(categoryFactor("background", photo.Background, backgroundScores, "Use a plain or uncluttered background"))

	return b.build(photoWeights, 1)
}

func faceSizeFactor(ratio float64) (string, float64, string) {
	switch {
	case ratio <= 0:
		return "faceSize", 50, ""
	case ratio >= 0.4 && ratio <= 0.7:
		return "faceSize", 100, ""
	case ratio >= 0.25 && ratio < 0.4:
		return "faceSize", 70, "Crop closer so your face fills more of the frame"
	case ratio > 0.7 && ratio <= 0.85:
		return "faceSize", 70, "Zoom out slightly so your head and shoulders are visible"
	case ratio < 0.25:
		return "faceSize", 40, "Your face is too small in the photo; crop closer"
	default:
		return "faceSize", 40, "Your face is cropped too tightly; zoom out"
	}
}

func imageQualityFactor(width, height int, sharpness float64) (string, float64, string) {
	short := width
	if height < short {
		short = height
	}

	var res float64
	issue := ""
	switch {
	case width <= 0 || height <= 0:
		res = 50
	case short >= 400:
		res = 100
	case short >= 200:
		res = 70
		issue = "Upload a higher resolution photo (at least 400x400)"
	default:
		res = 40
		issue = "Photo resolution is too low; use at least 400x400"
	}

	if sharpness > 0 && sharpness <= 1 {
		res = 0.7*res + 0.3*sharpness*100
		if sharpness < 0.5 && issue == "" {
			issue = "Photo appears blurry; use a sharper image"
		}
	}
	return "imageQuality", res, issue
}

func categoryFactor(name, value string, table map[string]float64, issue string) (string, float64, string) {
	score, ok := table[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return name, unknownCategoryScore, ""
	}
	if score < 80 {
		return name, score, issue
	}
	return name, score, ""
}
