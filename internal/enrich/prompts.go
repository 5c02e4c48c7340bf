package enrich

// System prompts keep the schema contract out of the per-call user prompt so
// it stays identical across investors.
const (
	extractSystemText = "You are a venture research analyst extracting structured facts about an investment organization from its website text. Return a valid JSON object matching the requested schema exactly. Use null for fields the text does not support."

	profileSystemText = "You are a venture research analyst profiling a startup from its website text. Return a valid JSON object matching the requested schema exactly. Use null for fields the text does not support."

	fitSystemText = "You are an expert at qualifying investors for startup fundraising. Judge thematic and sector fit only; ignore check sizes and stages, they are evaluated separately. Return a valid JSON object matching the requested schema exactly."
)

const extractPrompt = `Analyze this investor's website text and extract a structured record.

## Investor
Name: %s

## Website text
%s

Return a JSON object with this exact structure:
{
  "sectors": ["sector focus tags"],
  "checkSizeMin": minimum check size in whole EUR or null,
  "checkSizeMax": maximum check size in whole EUR or null,
  "stages": ["funding stages they invest at"],
  "geoFocus": ["geographies they invest in"],
  "investmentThesis": "their investment thesis in 1-2 sentences, or null",
  "noLongerInvesting": true if the site says the fund is closed, fully deployed, or not making new investments,
  "softwareOnly": true if they explicitly invest only in software companies,
  "isActualInvestor": false if this organization does not write checks (hub, co-working space, grant body, media site, etc.),
  "organizationType": "vc" | "cvc" | "pe" | "angel" | "family-office" | "accelerator" | "incubator" | "hub" | "co-working" | "grant" | "government" | "non-profit" | "unknown",
  "geographicRestrictions": "verbatim wording of any hard geographic restriction, or null",
  "geographicExceptions": true if they state exceptions to their geographic focus,
  "description": "one sentence describing the organization"
}

Only state what the text supports. When the text is ambiguous, prefer null over guessing.`

const profilePrompt = `Analyze this company's website text and extract a business profile for investor matching.

## Company
Name: %s

## Website text
%s

Return a JSON object with this exact structure:
{
  "companyName": "official company name",
  "description": "one sentence description of what they do",
  "sector": "primary sector",
  "technology": "core technology or technical approach",
  "productType": "Hardware / Software / Platform / Service / Hybrid",
  "businessModel": "B2B / B2C / B2B2C and revenue model",
  "targetMarket": "who buys the product",
  "keywords": ["keywords describing ideal investor focus areas"]
}`

const extendedProfilePrompt = `Analyze this company's website content and extract a comprehensive profile. This will be used to match the company with potential investors.
%s
Website content from %d pages:

%s

Return a JSON object with this exact structure:
{
  "companyName": "Official company name",
  "oneLiner": "One sentence description of what they do",
  "sector": "Primary sector (e.g., DeepTech, CleanTech, HealthTech)",
  "subSectors": ["specific sub-sectors or verticals"],
  "technology": {
    "core": "Main technology or technical approach",
    "description": "2-3 sentence explanation of the technology",
    "differentiators": ["what makes the tech unique"]
  },
  "product": {
    "type": "Hardware / Software / Platform / Service / Hybrid",
    "offerings": ["main products or services"],
    "description": "What they sell and to whom"
  },
  "businessModel": {
    "type": "B2B / B2C / B2B2C",
    "revenueModel": "How they make money",
    "description": "Brief explanation"
  },
  "targetMarket": {
    "industries": ["target industries"],
    "customerProfile": "Who buys the product",
    "geographicFocus": "Where they operate and sell"
  },
  "stage": {
    "estimated": "Pre-seed / Seed / Series A / Series B / Growth / Mature",
    "signals": ["evidence for this estimate"]
  },
  "investorFitKeywords": ["keywords describing ideal investor focus areas"]
}

Be thorough but only include information you can confidently extract from the content. Use null for fields that are not supported.`

const fitPrompt = `## Client Seeking Investment
Company: %s
Description: %s
Sector: %s
Technology: %s
Product type: %s
Business model: %s
Target market: %s
Keywords: %s

## Investor
Name: %s
Sectors: %s
Investment thesis: %s
Description: %s

## Task
Judge whether this investor is a thematic match for the client.

Return a JSON object with this exact structure:
{
  "match": true | false,
  "confidence": "high" | "medium" | "low",
  "rationale": "2-3 sentences explaining the judgment"
}

Be conservative: use "high" confidence only when sectors and thesis clearly align or clearly conflict.`

const describePrompt = `Write a short, factual description (2-3 sentences) of this investment organization for an internal investor database. Base it only on the website text below.

## Investor
Name: %s

## Website text
%s

Return only the description text, no preamble.`
