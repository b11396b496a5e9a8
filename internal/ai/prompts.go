// prompts.go - Prompt builders for symptom triage, translation, and image analysis

package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildTriagePrompt creates the symptom analysis prompt. The response
// contract and the few-shot examples pin the model to pure JSON output.
func BuildTriagePrompt(symptoms, followUpAnswers string) string {
	var sb strings.Builder

	sb.WriteString("You are a professional medical AI assistant helping patients understand their health issues. \n\n")
	sb.WriteString(fmt.Sprintf("PATIENT'S INPUT: %s\n\n", symptoms))
	if followUpAnswers != "" {
		sb.WriteString(fmt.Sprintf("PATIENT'S PREVIOUS ANSWERS: %s\n\n", followUpAnswers))
	}

	sb.WriteString(`YOUR TASK - FOLLOW THIS SEQUENCE STRICTLY:

**STEP 1: VALIDATE IF THIS IS A VALID HEALTH QUERY**
- Check if the query is related to health, symptoms, medical conditions, or wellness
- Invalid queries include: greetings only, random questions, non-health topics, jokes, etc.
- Set "isValidHealthQuery" to true ONLY if it's a genuine health-related concern

**STEP 2: IF NOT A VALID HEALTH QUERY (isValidHealthQuery = false)**
- DO NOT provide any medical analysis, recommendations, or medicines
- Set "needsClarification" to true
- Ask the patient to describe their health symptoms or concerns
- Explain that you can only help with health-related questions
- Set all other fields to empty/null

**STEP 3: IF VALID BUT UNCLEAR (isValidHealthQuery = true but insufficient information)**
- Set "needsClarification" to true
- Ask 1-2 specific follow-up questions to understand better (MAXIMUM 2 questions only)
- Questions should help determine: duration, severity, additional symptoms, triggers, etc.
- DO NOT provide recommendations or medicines yet - wait for more information
- Provide a brief acknowledgment but no diagnosis

**STEP 4: ONLY IF VALID AND CLEAR (isValidHealthQuery = true AND sufficient information)**
- Set "needsClarification" to false
- Proceed with full analysis, severity assessment, and recommendations
- Suggest appropriate medicines ONLY if symptoms are clear and well-understood

**SEVERITY LEVELS:**
- **mild**: Common, not serious (e.g., common cold, minor headache)
- **moderate**: Needs attention but not urgent (e.g., persistent cough, moderate fever)
- **severe**: Requires immediate medical attention (e.g., high fever, chest pain, difficulty breathing)

**MEDICINE SUGGESTIONS:**
- **CRITICAL**: Medicine names MUST be in ENGLISH ONLY (generic names like Paracetamol, Ibuprofen, Cetirizine)
- Only suggest safe, common OTC medicines when symptoms are CLEAR
- For severe cases, DO NOT suggest medicines - only recommend doctor consultation
- If unsure or unclear symptoms, DO NOT suggest medicines

**IMPORTANT GUIDELINES:**
- Be cautious and conservative - when in doubt, ask more questions
- Never suggest medicines for unclear or poorly described symptoms
- If symptoms indicate serious conditions, mark as SEVERE and strongly recommend immediate medical attention
- Be empathetic and professional

**CRITICAL**: Your response MUST be ONLY valid JSON - nothing before or after the JSON object.

RESPONSE FORMAT (JSON):
{
  "isValidHealthQuery": true,
  "needsClarification": false,
  "followUpQuestions": ["Question 1?", "Question 2?"],
  "analysis": "Clear explanation (only if needsClarification is false)",
  "severity": "mild",
  "recommendations": ["Recommendation 1", "Recommendation 2"],
  "suggestedMedicines": ["Paracetamol"],
  "doctorConsultation": "recommended",
  "urgencyLevel": "if symptoms worsen"
}

EXAMPLES:

Example 1 - Invalid Query:
Input: "Hello"
Output: {"isValidHealthQuery": false, "needsClarification": true, "followUpQuestions": ["Hello! I'm here to help with your health concerns. What symptoms are you experiencing?", "Are you feeling unwell? Please describe your symptoms."], "analysis": "", "severity": null, "recommendations": [], "suggestedMedicines": [], "doctorConsultation": null, "urgencyLevel": null}

Example 2 - Valid but Unclear:
Input: "I don't feel good"
Output: {"isValidHealthQuery": true, "needsClarification": true, "followUpQuestions": ["Can you describe specifically what symptoms you're experiencing?", "How long have you been feeling this way?"], "analysis": "I understand you're not feeling well. To help you better, I need more specific information about your symptoms.", "severity": null, "recommendations": [], "suggestedMedicines": [], "doctorConsultation": null, "urgencyLevel": null}

Example 3 - Valid and Clear:
Input: "I have a headache and fever for 2 days, temperature is 101°F"
Output: {"isValidHealthQuery": true, "needsClarification": false, "followUpQuestions": [], "analysis": "You appear to have symptoms consistent with a viral infection or flu...", "severity": "moderate", "recommendations": ["Rest and stay hydrated", "Monitor temperature"], "suggestedMedicines": ["Paracetamol"], "doctorConsultation": "recommended", "urgencyLevel": "if symptoms worsen"}

IMPORTANT:
- Return ONLY the JSON object above
- No explanatory text before or after
- No markdown formatting
- No code blocks
- Just pure JSON starting with { and ending with }`)

	return sb.String()
}

// BuildTranslationPrompt creates the prompt that translates the text
// fields of a triage payload while leaving clinical enums and medicine
// names in English.
func BuildTranslationPrompt(payload interface{}, targetLanguage string) (string, error) {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode payload for translation: %w", err)
	}

	return fmt.Sprintf(`Translate the following medical text from English to %s.
Keep the translation natural, clear, and medically accurate.

IMPORTANT: Return ONLY valid JSON with translated text. Medicine names should remain in English.

English JSON:
%s

Translate these fields to %s:
- followUpQuestions (array of questions)
- analysis (medical explanation)
- recommendations (array of recommendations)

Keep these fields unchanged:
- severity
- suggestedMedicines (medicine names stay in English)
- doctorConsultation
- urgencyLevel

Return the complete JSON with translated fields in %s.`, targetLanguage, string(encoded), targetLanguage, targetLanguage), nil
}

// BuildPackageVisionPrompt asks the vision model to read a medicine
// package directly.
func BuildPackageVisionPrompt() string {
	return `Analyze this medicine/tablet package image carefully and extract the following information:

1. **Medicine Brand Name**: The main product name (usually prominent, like "Dolo-650", "Crocin", "Paracetamol", etc.)
2. **Generic/Salt Name**: The active ingredient (like "Paracetamol", "Ibuprofen", "Amoxicillin", etc.)
3. **Dosage**: The strength/dosage mentioned (like "650mg", "500mg", "250mg", etc.)

Look at ALL text visible on the package - the brand name is usually the largest text.

Respond in this EXACT JSON format:
{
  "medicineName": "Brand name here",
  "genericName": "Generic/salt name here",
  "dosage": "Dosage here",
  "confidence": "high/medium/low"
}

If you can't find a specific field, use empty string "".`
}

// BuildSimpleVisionPrompt is the last-resort free-text package reading.
func BuildSimpleVisionPrompt() string {
	return `What is the medicine name shown in this image?
Extract the brand name (like Dolo-650, Crocin, etc.) and generic name (like Paracetamol) if visible.
Provide just the medicine name clearly.`
}

// BuildLabelOCRPrompt asks a text model to pull structured medicine
// info out of raw OCR text from a package or label.
func BuildLabelOCRPrompt(ocrText string) string {
	return fmt.Sprintf(`I have extracted the following text from a medicine package/label using OCR:

---
%s
---

Please analyze this text and extract the MEDICINE NAME (brand name or generic name).
Look for common patterns like:
- Brand names (usually prominent, in capitals)
- Generic/salt names (usually in smaller text)
- Dosage information (mg, ml, etc.)

Respond with ONLY the medicine name in this exact JSON format:
{
  "medicineName": "the main brand/medicine name",
  "genericName": "generic/salt name if found",
  "dosage": "dosage if found (e.g., 500mg)",
  "confidence": "high/medium/low"
}

If you cannot identify a medicine name, use empty strings.`, ocrText)
}

// BuildPrescriptionOCRPrompt asks a text model to pull prescription
// details out of raw OCR text, tolerant of handwriting errors.
func BuildPrescriptionOCRPrompt(ocrText string) string {
	return fmt.Sprintf(`I have extracted the following text from a medical PRESCRIPTION using OCR.
The text may have errors due to handwriting recognition.

---
%s
---

Please analyze this prescription text and extract ALL medicine names mentioned.
Look for:
- Medicine/drug names (like Paracetamol, Amoxicillin, Crocin, Dolo, etc.)
- Dosage instructions (like 500mg, twice daily, etc.)
- Duration (like 5 days, 1 week, etc.)

Common Indian medicine names: Dolo, Crocin, Calpol, Combiflam, Disprin, Vicks, Betadine, Strepsils,
Gelusil, Digene, Eno, Hajmola, Zandu, Dabur, Cipla products, etc.

Respond in this exact JSON format:
{
  "medicines": [
    {"name": "Medicine Name 1", "dosage": "dosage if found", "frequency": "how often", "duration": "how long"},
    {"name": "Medicine Name 2", "dosage": "dosage if found", "frequency": "how often", "duration": "how long"}
  ],
  "doctorName": "doctor name if visible",
  "patientName": "patient name if visible",
  "date": "prescription date if visible",
  "confidence": "high/medium/low"
}

Even if text is unclear, try to identify medicine names based on patterns and common drug names.`, ocrText)
}

// BuildPrescriptionVisionPrompt asks the vision model to read a
// prescription image directly when OCR produced nothing.
func BuildPrescriptionVisionPrompt() string {
	return `This is a medical prescription image. Please extract:
1. ALL medicine names mentioned
2. Dosage for each medicine
3. Frequency (how often to take)
4. Duration (for how many days)
5. Doctor's name if visible
6. Patient's name if visible
7. Date of prescription

Return the information in a structured format.`
}

// BuildUsagesPrompt asks for structured drug information by name.
// genericName and dosage may be empty.
func BuildUsagesPrompt(name, genericName, dosage string) string {
	if genericName == "" {
		genericName = "Not specified"
	}
	if dosage == "" {
		dosage = "Not specified"
	}

	return fmt.Sprintf(`You are a medical information assistant. Provide detailed, accurate medical information about the following medicine.

MEDICINE DETAILS:
- Name: %s
- Generic Name: %s
- Dosage: %s

Please provide the following information in a structured JSON format:

1. **Medical Uses**: List all medical conditions and diseases this medicine is used to treat
2. **How It Works**: Explain the mechanism of action in simple terms
3. **Dosage Guidelines**: General dosage information (note that actual dosage should be determined by a doctor)
4. **Side Effects**: Common and serious side effects to watch for
5. **Precautions**: Important warnings and who should avoid this medicine
6. **Drug Interactions**: Medicines or substances that may interact with this drug
7. **Storage Instructions**: How to properly store the medicine

IMPORTANT:
- Provide accurate, medically-sound information
- Use simple language that patients can understand
- Always remind users to consult a healthcare professional
- If the medicine name seems misspelled, try to identify the correct medicine

Respond ONLY with valid JSON in this format:
{
    "medicalUses": ["Use 1", "Use 2", "Use 3"],
    "howItWorks": "Explanation of mechanism of action",
    "dosageGuidelines": "General dosage information",
    "commonSideEffects": ["Side effect 1", "Side effect 2"],
    "seriousSideEffects": ["Serious effect 1", "Serious effect 2"],
    "precautions": ["Precaution 1", "Precaution 2"],
    "drugInteractions": ["Interaction 1", "Interaction 2"],
    "storageInstructions": "Storage information",
    "disclaimer": "Always consult a healthcare professional before taking any medication."
}`, name, genericName, dosage)
}

// BuildCatalogUsagesPrompt is the variant keyed to a catalog entry,
// using the disease/composition fields instead of a free-form dosage.
func BuildCatalogUsagesPrompt(name, genericName, composition, disease string) string {
	if genericName == "" {
		genericName = "N/A"
	}
	if composition == "" {
		composition = "N/A"
	}
	if disease == "" {
		disease = "N/A"
	}

	return fmt.Sprintf(`You are a medical information assistant. Provide detailed, accurate medical information about the following medicine.

MEDICINE DETAILS:
- Name: %s
- Generic Name: %s
- Composition: %s
- Disease/Condition: %s

Please provide the following information in a structured JSON format:

1. **Medical Uses**: List all medical conditions and diseases this medicine is used to treat
2. **How It Works**: Explain the mechanism of action in simple terms
3. **Dosage Guidelines**: General dosage information (note that actual dosage should be determined by a doctor)
4. **Side Effects**: Common and serious side effects to watch for
5. **Precautions**: Important warnings and who should avoid this medicine
6. **Drug Interactions**: Medicines or substances that may interact with this drug
7. **Storage Instructions**: How to properly store the medicine

IMPORTANT:
- Provide accurate, medically-sound information
- Use simple language that patients can understand
- Always remind users to consult a healthcare professional

Respond ONLY with valid JSON in this format:
{
    "medicalUses": ["Use 1", "Use 2", "Use 3"],
    "howItWorks": "Explanation of mechanism of action",
    "dosageGuidelines": "General dosage information",
    "commonSideEffects": ["Side effect 1", "Side effect 2"],
    "seriousSideEffects": ["Serious effect 1", "Serious effect 2"],
    "precautions": ["Precaution 1", "Precaution 2"],
    "drugInteractions": ["Interaction 1", "Interaction 2"],
    "storageInstructions": "Storage information",
    "disclaimer": "Always consult a healthcare professional before taking any medication."
}`, name, genericName, composition, disease)
}
