package usecase

import (
	"fmt"
	"strings"

	"github.com/merchai/backend/internal/domain"
)

// routerPrompt asks whether real-time search is needed for a query.
// The default is biased toward internal knowledge.
func routerPrompt(query string) string {
	return fmt.Sprintf(`
You are a smart query router optimizing for cost and efficiency.
Analyze this search query: %q.

Your Goal: Determine if real-time web search is absolutely necessary.
Default to FALSE (Internal Knowledge) unless the query requires real-time data or very specific recent knowledge.

CRITERIA FOR "NO SEARCH" (Return false):
- Generic product names (e.g., "tv", "milk", "eggs", "laptop", "shampoo", "coffee maker").
- Broad categories (e.g., "running shoes", "red dress", "office chair").
- Common knowledge products where attributes are stable (e.g., "aa batteries", "iphone charger").
- Queries where the user intent is obvious from general knowledge (e.g. "hdmi cable").

CRITERIA FOR "SEARCH NEEDED" (Return true):
- Specific, complex model numbers (e.g., "Sony XR-65A95L", "Samsung S24 Ultra").
- "Best of" queries specifically mentioning the current year or "new" (e.g., "best laptops 2025").
- Highly specific or ambiguous brand names that might be unknown.
- Queries looking for "deals", "stock", "near me", or "price" which fluctuates.
- Viral or trending items (e.g. "tiktok leggings").

Respond in JSON: { "needsSearch": boolean, "reason": string }
`, query)
}

// searchIntentPrompt produces the intent overview via live search
func searchIntentPrompt(query string) string {
	return fmt.Sprintf(`
Perform a web search to understand the current context and user intent for the query: %q.

IMPORTANT:
1. Assume there is no spell check issue. Interpret the query exactly as it is written.
2. Ensure you investigate how this query is handled on major retailer sites alongside general web search results.

What are customers usually looking for when they search this? Are there specific brands, features, or price points associated with this query currently?
Summarize the intent in 2-3 sentences.
`, query)
}

// knowledgeIntentPrompt produces the intent overview from model knowledge alone
func knowledgeIntentPrompt(query string) string {
	return fmt.Sprintf(`
You are an e-commerce expert. The shopping customer has searched for: %q.

IMPORTANT: Assume there is no spell check issue. Interpret the query exactly as it is written, even when it collides with a more common word.

Based on general knowledge, explain what customers are looking for when they search this. Use the explicit intent expressed by the searched query instead of an implicitly inferred one.

Summarize the intent in 2-3 sentences.
`, query)
}

// extractionPrompt asks for a structured product record for a product page URL.
// The query, when present, focuses extraction on task-relevant attributes.
func extractionPrompt(url, query string) string {
	focus := ""
	if strings.TrimSpace(query) != "" {
		focus = fmt.Sprintf("\nThe customer searched for %q; prioritize attributes relevant to that query.\n", query)
	}

	return fmt.Sprintf(`
I need to extract product details for an e-commerce item.

Here is the link provided: %q
%s
Please perform a web search for this URL or the product keywords contained within it to find the most accurate and up-to-date information.

Task:
1. Identify the product name, price, brand, and key attributes.
2. Return the data strictly as a JSON object.
3. Do NOT use markdown code blocks. Just the raw JSON string.

Required JSON Structure:
{
  "name": "string",
  "description": "string (summary)",
  "price": "string",
  "category": "string",
  "brand": "string",
  "size": "string (comma separated)",
  "color": "string (comma separated)",
  "gender": "string (Men, Women, etc)",
  "badge": "string (optional, e.g. Best Seller)"
}

If you cannot find the specific product, try to infer the category and brand from the URL itself, or return empty strings for unknown fields.
`, url, focus)
}

// analysisPrompt carries the full relevance rubric. The score bands, size,
// brand, badge and bundle guidelines here are the business logic of the
// judgment step.
func analysisPrompt(query string, product domain.ProductRecord, searchContext string) string {
	return fmt.Sprintf(`
You are an expert E-commerce Merchandiser and Search Analyst.

Analyze the relevance of the following product for the specific customer search query: %q.

IMPORTANT INSTRUCTION:
1. **Exact Match Priority**: Your primary source of truth is the explicit keywords in the user's query. You MUST honor the exact match between the query terms and the product attributes (e.g., Brand, Size, Color, Gender, Flavor).
2. **Context as Reference Only**: The "User Intent Context" provided below is secondary. It is strictly for background understanding of broad categories. It must NEVER override a direct mismatch between the query text and product details.
3. **No Spell Check Assumption**: Interpret the query exactly as written. Do not assume typos or attempt to correct the user's spelling.

STRICT RELEVANCE GUIDELINE (Must follow exactly):
Score the product based on the following criteria.

| Rating | Score Range | Core Criteria |
| :--- | :--- | :--- |
| **4-Excellent** | **80-100** | **Perfect Match.** Exact match (narrow queries) or satisfies the dominant/primary intent (broad queries); all attributes met; product highly relevant. |
| **3-Good** | **60-79** | **Highly Relevant, Minor Flaw.** Highly relevant but fails on *one* attribute (e.g., brand, style, size mismatch within a narrow range, or a form mismatch); or is a standard bundle. |
| **2-Okay** | **40-59** | **Somewhat Relevant.** Relevant but not the primary intent; has multiple attributes wrong; or is an *accessory* to the main product intended in the query. |
| **1-Bad** | **20-39** | **Slightly Relevant/Unusable.** Mostly irrelevant; item is completely unusable (e.g., wrong size/gender clothing/bedding); or crosses closely related product categories (e.g., dog shampoo for dog treats). |
| **0-Embarrassing** | **0-19** | **Completely Irrelevant.** No connection between the product and the query; should not appear in results, even if there is slight text matching. |

EVALUATION GUIDELINE FOR SIZE:
For a product to receive an Excellent rating, all parts of the query, including size, must match. Size significantly impacts usability and user satisfaction. If an item is completely unusable due to size (e.g., a twin sheet set for a King bed, or size 8 shoes when size 6 was queried), it is generally rated 1-Bad. However, many product categories have flexible size requirements (e.g., TVs, rugs, dog food, trash cans, kitchen appliances). In these cases, a result with a different size might still provide value to customers if it is reasonably close to the size specified in the query. Judges should use their best judgment to determine what "reasonably close" means for each category. Results falling within a reasonable range of the queried size should be rated Good (e.g., a 7.2 x 9.5 rug for an "8x10 rugs" query or a 75-inch TV for a "70-inch TV" query), provided other attributes match.

EVALUATION GUIDELINE FOR BRAND:
Brand relevance is determined by whether the returned product matches the brand specified in the query. A brand mismatch typically reduces the relevance rating to Good or lower, depending on the severity and product category. If the query consists solely of a brand name, rate the matching product as Excellent, even if that brand name is a homonym (a word that has multiple meanings or refers to different things in other contexts).

EVALUATION GUIDELINE FOR BUNDLES:
To evaluate bundle relevance, first ensure the primary item matches the user's intent; if it does, the rating is determined by the nature of the secondary items. Assign a 4-Excellent if the additional items are essential for functionality (e.g., batteries), integrated features (e.g., built-in screen protectors), explicit "freebies," or naturally paired sets that rarely sell separately (e.g., a wand and tiara set). If the bundle includes the desired product but the secondary items are merely extra value-adds rather than essential or traditional pairings, assign a 3-Good.
Analogy: Think of a bundle like a Value Meal at a restaurant. If you only wanted the burger, receiving the fries and a drink is still a "Good" result because you got what you wanted, even if you have to deal with the extra items. However, if the burger requires a wrapper to be edible, that wrapper isn't an "extra" item - it's a dependency, making the result "Excellent."

User Intent Context (Reference Only):
%q

Product Details:
Name: %s
Brand: %s
Category: %s
Price: %s
Gender/Audience: %s
Badge/Label: %s
Colors: %s
Sizes: %s
Description: %s

Special Consideration for Badges:
If the product has a badge (e.g., "Clearance", "Best Seller", "Rollback"), evaluate if this enhances the relevance for this specific query.
- "Clearance"/"Rollback"/"Deal" increases relevance for queries like "cheap", "sale", "discount", "budget".
- "Best Seller"/"Popular" increases relevance for queries like "best", "popular", "top rated".
A badge can only raise relevance for matching intent words; it never lowers it.

Evaluate "Customer Utility": How well does this product solve the user's specific problem or intent implied by the query?

HUMAN REVIEW RECOMMENDATION:
Evaluate if a human expert should verify this result. Set 'humanReviewNeeded' to true if:
1. The query intent is still highly ambiguous even with context (e.g., very obscure slang).
2. The product details are insufficient to make a definitive judgment.
3. The score is extremely borderline (e.g., 59 vs 60, or 79 vs 80) where subjective interpretation changes the rating category.
4. The product is in a high-risk category (e.g., medical, safety) and relevance is not 100%% clear.

ALWAYS provide a concise 'reviewReason' explaining your recommendation, even if human review is NOT needed (e.g. "Match is definitive and query is unambiguous").
`, query, searchContext,
		product.Name, product.Brand, product.Category, product.Price,
		product.Gender, product.Badge, product.Color, product.Size,
		product.Description)
}

// criticPrompt asks a second judge to QA an existing analysis
func criticPrompt(query string, product domain.ProductRecord, contextOverview string, analysis domain.AnalysisResult) string {
	return fmt.Sprintf(`
You are a Senior QA Critic for an e-commerce relevance engine.
Your job is to evaluate the *quality and accuracy* of a relevance analysis performed by another AI agent.

User Query: %q
Context Summary: %q
Product Name: %q
Product Description: %q

---
Current Analysis to Evaluate:
Score: %d/100
Reasoning: %q
Key Matches: %s
Missing Features: %s
---

YOUR TASK:
Determine if this analysis is satisfactory.
1. Did the analyst miss a critical mismatch (e.g., wrong gender, wrong size, incompatible category)?
2. Is the score justified by the reasoning? (e.g., A score of 90 shouldn't exist if "Wrong Category" is listed).
3. Did the analyst hallucinate features not present in the product details?
4. Is the reasoning too vague?

If the analysis is solid, return "satisfactory": true.
If the analysis is flawed, weak, or missed something obvious, return "satisfactory": false and provide 2-3 SPECIFIC, ACTIONABLE suggestions for the analyst to fix it.

Respond strictly in JSON:
{
  "satisfactory": boolean,
  "scoreAdjustmentNeeded": boolean,
  "critique": "string summary of the problem",
  "suggestions": ["suggestion 1", "suggestion 2"]
}
`, query, truncate(contextOverview, 300), product.Name, truncate(product.Description, 200),
		analysis.RelevanceScore, analysis.Reasoning,
		strings.Join(analysis.KeyMatches, ", "), strings.Join(analysis.MissingFeatures, ", "))
}

// truncate shortens s to at most n bytes for prompt embedding
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
