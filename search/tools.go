package search

import (
	"context"
	"fmt"
	"time"

	"github.com/suzudai/my-chat-app/tool"
)

// Tool names exposed to models during research runs.
const (
	ToolDeepWebSearch    = "deep_web_search"
	ToolAcademicSearch   = "academic_search"
	ToolFactVerification = "fact_verification"
	ToolTrendAnalysis    = "trend_analysis"
	ToolNewsSearch       = "news_search"
)

const deepWebFallback = `General technology background (substitute for unavailable live search):

Title: Large language model adoption
Content: Generative models such as ChatGPT, Claude and Gemini are widely deployed; multimodal capabilities and efficient training are active areas.

Title: Industry applications
Content: Practical adoption is expanding across healthcare, education, finance and manufacturing, driving automation and new services.

Title: Regulation and governance
Content: International discussion of safety, ethics and data privacy is intensifying, with regulatory frameworks under review in many jurisdictions.`

const academicFallback = `Academic research overview (substitute for unavailable live search):

Title: Transformer Architecture and Large Language Models
Content: Research continues on the transformer foundations of large models and on efficient training techniques.

Title: Multimodal AI and Foundation Models
Content: Unified processing of text, image and audio is advancing, with general-purpose foundation models a major focus.

Title: AI Safety and Alignment Research
Content: Safety and alignment with human values remain central themes, with growing work on responsible development practices.`

const factVerificationFallback = `General verification guidance (substitute for unavailable live verification):

Elements worth verifying:
- Research papers or empirical data behind technical claims
- Reliability of corporate announcements and industry reports
- Comparison of predictions against actual progress
- Degree of consensus among domain experts

Recommended sources:
- Peer-reviewed academic papers
- Official announcements from major organizations
- Government technology policy documents
- Reports from established industry analysts`

const trendFallback = `Current trend overview (substitute for unavailable live search):

Key trends:
1. Accelerating enterprise adoption of generative tools
2. Progress in multimodal processing of text, image and audio
3. Growth of on-device inference on phones and IoT hardware
4. International convergence on governance frameworks
5. Rising emphasis on compute and energy efficiency

Emerging areas:
- Practical exploration of quantum machine learning
- Neuromorphic computing
- Autonomous agent systems`

const newsFallback = `Recent developments overview (substitute for unavailable live search):

Notable movements:
- Continued model releases from the major labs
- Diversifying enterprise solutions
- Sharply rising demand for specialist talent
- Intensifying competition in accelerator hardware
- Ongoing debate balancing privacy with capability

Major organizations:
- Deep product integration of assistant features
- Broad application of frontier research
- Sustained large-scale research investment`

// Tools builds the research tool set over the given search client. Every tool
// carries a canned substitute result so a failing backend degrades the quality
// of a run, never its progress.
func Tools(client Client) []tool.Tool {
	deepWeb := tool.NewFunctionTool(
		ToolDeepWebSearch,
		"Run a detailed web search for up-to-date information on a topic",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":        map[string]any{"type": "string", "description": "Search query"},
				"search_depth": map[string]any{"type": "string", "description": "Search depth, defaults to comprehensive"},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			results, err := client.Search(ctx, query)
			if err != nil {
				return nil, fmt.Errorf("web search: %w", err)
			}
			return FormatResults("Latest search results", results), nil
		},
	).WithFallback(deepWebFallback)

	academic := tool.NewFunctionTool(
		ToolAcademicSearch,
		"Search scholarly sources for academic research on a topic",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{"type": "string", "description": "Research topic"},
			},
			"required": []string{"topic"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			topic, _ := args["topic"].(string)
			query := fmt.Sprintf("scholarly research academic papers %s site:arxiv.org OR site:scholar.google.com OR site:researchgate.net", topic)
			results, err := client.Search(ctx, query)
			if err != nil {
				return nil, fmt.Errorf("academic search: %w", err)
			}
			return FormatResults("Academic search results", results), nil
		},
	).WithFallback(academicFallback)

	factVerify := tool.NewFunctionTool(
		ToolFactVerification,
		"Verify a claim against fact-checking and corroborating sources",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"claim":   map[string]any{"type": "string", "description": "Claim to verify"},
				"sources": map[string]any{"type": "string", "description": "Sources the claim came from"},
			},
			"required": []string{"claim"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			claim, _ := args["claim"].(string)
			query := fmt.Sprintf("verify fact check %s site:factcheck.org OR site:snopes.com", claim)
			results, err := client.Search(ctx, query)
			if err != nil {
				return nil, fmt.Errorf("fact verification: %w", err)
			}
			return FormatResults("Fact verification results", results), nil
		},
	).WithFallback(factVerificationFallback)

	trends := tool.NewFunctionTool(
		ToolTrendAnalysis,
		"Analyze the latest trends and developments for a topic",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{"type": "string", "description": "Topic to analyze"},
			},
			"required": []string{"topic"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			topic, _ := args["topic"].(string)
			query := fmt.Sprintf("recent trends developments %s %d latest news updates", topic, time.Now().Year())
			results, err := client.Search(ctx, query)
			if err != nil {
				return nil, fmt.Errorf("trend analysis: %w", err)
			}
			return FormatResults("Latest trend analysis results", results), nil
		},
	).WithFallback(trendFallback)

	news := tool.NewFunctionTool(
		ToolNewsSearch,
		"Search for the most recent news on a topic",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{"type": "string", "description": "News topic"},
			},
			"required": []string{"topic"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			topic, _ := args["topic"].(string)
			query := fmt.Sprintf("%s news latest %s", topic, time.Now().Format("2006-01"))
			results, err := client.Search(ctx, query)
			if err != nil {
				return nil, fmt.Errorf("news search: %w", err)
			}
			return FormatResults("Latest news results", results), nil
		},
	).WithFallback(newsFallback)

	return []tool.Tool{deepWeb, academic, factVerify, trends, news}
}
