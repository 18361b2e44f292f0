package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// LLMModelName is the GenAI backend to use for the client.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
)

// The Stringer interface for Backend.
func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func Int32Pointer(i int32) *int32 {
	return &i
}

// ClothingAnalysis is the structured result extracted from an item photo.
type ClothingAnalysis struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Color        string   `json:"color"`
	WarmthRating int      `json:"warmth_rating"`
	Formality    string   `json:"formality"`
	Tags         []string `json:"tags"`
}

type LLMResponse struct {
	Analysis         *ClothingAnalysis `json:"analysis"`
	Response         string            `json:"response"`
	InputTokenCount  int32             `json:"input_token_count"`
	OutputTokenCount int32             `json:"output_token_count"`
	TotalTokenCount  int32             `json:"total_token_count"`
	IsTest           bool              `json:"is_test"`
}

type LLMStylist interface {
	AnalyzeClothing(filePath string, modelName LLMModelName) (*LLMResponse, error)
}

type GoogleLLMStylist struct{}

func tryUploadGoogleStorage(ctx context.Context, client *genai.Client, filePath string, newName *string) (*genai.File, error) {
	var genFile *genai.File
	var err error
	maxUploadTimes := 3
	for i := range maxUploadTimes {
		config := &genai.UploadFileConfig{}
		if newName != nil {
			config = &genai.UploadFileConfig{
				Name: *newName,
			}
		}

		genFile, err = client.Files.UploadFromPath(ctx, filePath, config)
		if err == nil {

			fmt.Println("File uploaded successfully:", filePath, "Attempt:", i+1)
			return genFile, nil
		}
		fmt.Printf("Error uploading file %s, attempt %d: %v\n", filePath, i+1, err)
	}
	return nil, fmt.Errorf("failed to upload file to google storage /after %d attempts: %s", maxUploadTimes, filePath)
}

func (GoogleLLMStylist) AnalyzeClothing(filePath string, modelName LLMModelName) (*LLMResponse, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	genFile, err := tryUploadGoogleStorage(ctx, client, filePath, nil)
	if err != nil {
		fmt.Println("Error uploading clothing file:", filePath, err)
		return nil, fmt.Errorf("error uploading clothing file %s: %v", filePath, err)
	}

	parts := []*genai.Part{
		{
			FileData: &genai.FileData{
				FileURI:  genFile.URI,
				MIMEType: genFile.MIMEType,
			},
		},
		{
			Text: "Analyze the single clothing item in the image. Return its short display name, category, dominant color as a single lowercase word, warmth rating from 1 (very light, tank tops) to 5 (heavy winter wear), formality level, and any descriptive tags such as season tags (summer, winter, spring, fall, all-season) or attributes like waterproof.",
		},
	}

	result, err := client.Models.GenerateContent(ctx, modelName.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		MaxOutputTokens: 2000,
		Temperature:     floatPointer(0.2),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: `You are a wardrobe cataloging assistant. If the image contains no clothing item return NO_CLOTHING as the name.`},
			},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":          {Type: genai.TypeString},
				"category":      {Type: genai.TypeString, Enum: []string{"top", "bottom", "shoes", "outerwear", "accessory"}},
				"color":         {Type: genai.TypeString},
				"warmth_rating": {Type: genai.TypeInteger},
				"formality":     {Type: genai.TypeString, Enum: []string{"casual", "business_casual", "formal"}},
				"tags":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"name", "category", "color", "warmth_rating", "formality"},
		},
	})

	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}

	inputTokenCount := result.UsageMetadata.PromptTokenCount
	outputTokenCount := result.UsageMetadata.CandidatesTokenCount
	totalTokenCount := result.UsageMetadata.TotalTokenCount
	fmt.Println("Input token count:", inputTokenCount)
	fmt.Println("Output token count:", outputTokenCount)
	fmt.Println("Total token count:", totalTokenCount)

	if result.PromptFeedback != nil {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("content violation: %s %s ", filePath, result.PromptFeedback.BlockReasonMessage)
	}

	text := result.Text()
	var analysis ClothingAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		fmt.Println("Error parsing analysis JSON: ", err)
		fmt.Println(text)
		return nil, fmt.Errorf("error parsing analysis response: %v", err)
	}

	return &LLMResponse{
		Analysis:         &analysis,
		Response:         text,
		InputTokenCount:  inputTokenCount,
		OutputTokenCount: outputTokenCount,
		TotalTokenCount:  totalTokenCount,
		IsTest:           false,
	}, nil
}
