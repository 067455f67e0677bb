package pipeline

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/konradh/hpi-ii-project-2022/helper"
)

// MentionCountFunc counts person mentions in a filing text.
type MentionCountFunc func(text string) (int, error)

// DefaultPersonMentionCounter creates a person mention counter backed by a
// NER model. It is a recall diagnostic for the pattern based extractor: the
// number of PER mentions the model sees minus the number of persons the
// patterns parsed estimates how many the cascade misses. Not used on the
// extraction path itself.
func DefaultPersonMentionCounter() (MentionCountFunc, error) {
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "person-mention-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return func(text string) (int, error) {
		result, err := nerPipeline.RunPipeline([]string{text})
		if err != nil {
			return 0, fmt.Errorf("failed to run NER: %w", err)
		}
		if len(result.Entities) == 0 {
			return 0, nil
		}
		count := 0
		for _, entity := range result.Entities[0] {
			label := strings.TrimPrefix(strings.TrimPrefix(entity.Entity, "B-"), "I-")
			if label == "PER" {
				count++
			}
		}
		return count, nil
	}, nil
}
