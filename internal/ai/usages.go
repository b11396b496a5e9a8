// usages.go - AI-generated drug information sheets

package ai

import (
	"context"

	"github.com/arogyalabs/telehealth-backend/internal/common"
)

// UsageInfo is the structured drug information sheet returned to
// patients for a medicine.
type UsageInfo struct {
	MedicalUses         []string `json:"medicalUses"`
	HowItWorks          string   `json:"howItWorks"`
	DosageGuidelines    string   `json:"dosageGuidelines"`
	CommonSideEffects   []string `json:"commonSideEffects"`
	SeriousSideEffects  []string `json:"seriousSideEffects"`
	Precautions         []string `json:"precautions"`
	DrugInteractions    []string `json:"drugInteractions"`
	StorageInstructions string   `json:"storageInstructions"`
	Disclaimer          string   `json:"disclaimer"`
}

// UsageProvider generates drug information sheets. On any failure it
// returns a conservative consult-your-doctor sheet rather than an
// error, so the endpoint always has content to show.
type UsageProvider struct {
	completer Completer
}

func NewUsageProvider(completer Completer) *UsageProvider {
	return &UsageProvider{completer: completer}
}

// ByName produces an information sheet from a free-form medicine name.
func (p *UsageProvider) ByName(ctx context.Context, name, genericName, dosage string, rc *common.RequestContext) *UsageInfo {
	return p.generate(ctx, BuildUsagesPrompt(name, genericName, dosage), []string{"General medical use - please consult a healthcare professional"}, rc)
}

// ForCatalogEntry produces an information sheet from catalog fields.
// disease seeds the fallback sheet's medical uses.
func (p *UsageProvider) ForCatalogEntry(ctx context.Context, name, genericName, composition, disease string, rc *common.RequestContext) *UsageInfo {
	fallbackUses := []string{"General medical use"}
	if disease != "" {
		fallbackUses = []string{disease}
	}
	return p.generate(ctx, BuildCatalogUsagesPrompt(name, genericName, composition, disease), fallbackUses, rc)
}

func (p *UsageProvider) generate(ctx context.Context, prompt string, fallbackUses []string, rc *common.RequestContext) *UsageInfo {
	rc.StartStep("usage_info")

	raw, err := p.completer.Complete(ctx, prompt, rc)
	if err != nil {
		rc.EndStep("failed", err)
		return fallbackUsageInfo(fallbackUses)
	}

	var info UsageInfo
	if err := ExtractJSON(raw, &info); err != nil {
		rc.EndStep("failed", err)
		return fallbackUsageInfo(fallbackUses)
	}
	rc.EndStep("success", nil)

	if info.Disclaimer == "" {
		info.Disclaimer = "Always consult a healthcare professional before taking any medication."
	}
	return &info
}

func fallbackUsageInfo(medicalUses []string) *UsageInfo {
	return &UsageInfo{
		MedicalUses:         medicalUses,
		HowItWorks:          "Please consult a healthcare professional for detailed information.",
		DosageGuidelines:    "Follow your doctor's prescription.",
		CommonSideEffects:   []string{"Consult your doctor for side effects information"},
		SeriousSideEffects:  []string{"Seek immediate medical attention if you experience severe reactions"},
		Precautions:         []string{"Always consult your doctor before taking any medication"},
		DrugInteractions:    []string{"Inform your doctor about all medications you are taking"},
		StorageInstructions: "Store as directed on the package",
		Disclaimer:          "Always consult a healthcare professional before taking any medication.",
	}
}
