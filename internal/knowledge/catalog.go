package knowledge

// Catalog returns the built-in dermatology and application knowledge entries.
// Each call returns a fresh slice so callers cannot mutate the shared catalog.
func Catalog() []Entry {
	entries := make([]Entry, len(catalog))
	copy(entries, catalog)
	return entries
}

var catalog = []Entry{
	{
		Title: "Melanoma Detection and Classification",
		Content: "Melanoma is the most dangerous form of skin cancer. The ABCDE rule helps identify " +
			"suspicious moles: Asymmetry, Border irregularity, Color variation, Diameter larger than 6mm, " +
			"and Evolving characteristics. Early detection is crucial as melanoma can spread rapidly to " +
			"other parts of the body.",
		Category: CategoryMedical,
		Keywords: []string{"melanoma", "ABCDE", "skin cancer", "moles", "detection", "dangerous"},
		Source:   SourceStatic,
	},
	{
		Title: "Basal Cell Carcinoma Information",
		Content: "Basal cell carcinoma (BCC) is the most common type of skin cancer, accounting for about " +
			"80% of all skin cancers. It typically appears as a pearly or waxy bump, a flat, flesh-colored " +
			"or brown scar-like lesion, or a bleeding or scabbing sore that heals and returns.",
		Category: CategoryMedical,
		Keywords: []string{"basal cell", "BCC", "common", "bump", "waxy", "pearly"},
		Source:   SourceStatic,
	},
	{
		Title: "Squamous Cell Carcinoma Overview",
		Content: "Squamous cell carcinoma (SCC) is the second most common form of skin cancer. It often " +
			"appears as a red, scaly patch, an open sore, or a raised growth with a central depression. " +
			"SCC can develop from actinic keratoses and has a higher risk of spreading than basal cell carcinoma.",
		Category: CategoryMedical,
		Keywords: []string{"squamous cell", "SCC", "red", "scaly", "patch", "actinic keratoses"},
		Source:   SourceStatic,
	},
	{
		Title: "MIDAS AI Analysis Process",
		Content: "MIDAS uses advanced machine learning algorithms to analyze uploaded skin images. The " +
			"system processes images through multiple neural network layers, comparing patterns against a " +
			"database of thousands of dermatological cases. Results include confidence scores and " +
			"recommendations for professional consultation.",
		Category: CategoryApplication,
		Keywords: []string{"MIDAS", "AI", "analysis", "upload", "machine learning", "confidence", "neural network"},
		Source:   SourceStatic,
	},
	{
		Title: "How to Use Image Upload Feature",
		Content: "To analyze a skin lesion with MIDAS: 1) Take a clear, well-lit photo of the area, " +
			"2) Upload the image using the drag-and-drop interface, 3) Wait for AI processing (usually " +
			"30-60 seconds), 4) Review the detailed analysis results, 5) Follow recommendations for next " +
			"steps including professional consultation if needed.",
		Category: CategoryApplication,
		Keywords: []string{"upload", "image", "photo", "drag", "drop", "processing", "results", "steps"},
		Source:   SourceStatic,
	},
	{
		Title: "Skin Cancer Prevention Guidelines",
		Content: "Prevention is key in skin cancer management: Use broad-spectrum SPF 30+ sunscreen daily, " +
			"seek shade during peak UV hours (10am-4pm), wear protective clothing and wide-brimmed hats, " +
			"avoid tanning beds, perform monthly self-examinations, and schedule annual dermatologist visits.",
		Category: CategoryMedical,
		Keywords: []string{"prevention", "sunscreen", "SPF", "UV", "shade", "protection", "self-examination", "dermatologist"},
		Source:   SourceStatic,
	},
	{
		Title: "Understanding AI Confidence Scores",
		Content: "MIDAS provides confidence scores ranging from 0-100% for each diagnosis. Scores above 80% " +
			"indicate high confidence, 60-80% moderate confidence, and below 60% low confidence. Regardless " +
			"of score, professional medical evaluation is always recommended for suspicious lesions.",
		Category: CategoryApplication,
		Keywords: []string{"confidence", "scores", "percentage", "diagnosis", "professional", "evaluation", "suspicious"},
		Source:   SourceStatic,
	},
	{
		Title: "Actinic Keratosis Information",
		Content: "Actinic keratoses are precancerous skin lesions caused by sun damage. They appear as " +
			"rough, scaly patches on sun-exposed areas like face, ears, hands, and forearms. While not " +
			"cancerous themselves, they can develop into squamous cell carcinoma if left untreated.",
		Category: CategoryMedical,
		Keywords: []string{"actinic keratosis", "precancerous", "sun damage", "rough", "scaly", "patches", "squamous cell"},
		Source:   SourceStatic,
	},
}
