package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `med_name,generic_name,disease_name,final_price,drug_manufacturer,prescription_required,img_urls,drug_content,drug_varient
Dolo 650 Tablet,Paracetamol (650mg),Fever,₹33.60,* Mkt: Micro Labs Ltd,Not required,"https://img.example.com/dolo.jpg,https://img.example.com/dolo2.jpg",Dolo 650 Tablet is used to relieve fever and pain.,Tablet
Crocin Advance,Paracetamol (500mg),"Fever, Headache",₹20.25,* Mkt: GSK Pharma,Not required,https://img.example.com/crocin.jpg,Crocin Advance provides fast relief.,Tablet
Azithral 500 Tablet,Azithromycin (500mg),Bacterial Infections,₹119.00,* Mkt: Alembic Pharmaceuticals,Rx required,https://img.example.com/azithral.jpg,Azithral 500 is an antibiotic.,Tablet
Cetrizine Tablet,Cetirizine (10mg),Allergy,not-a-price,,Not required,,,
`

func loadSample(t *testing.T) *Catalog {
	t.Helper()
	cat, err := load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 4, cat.Size())
	return cat
}

func TestLoadParsesFields(t *testing.T) {
	cat := loadSample(t)

	dolo := cat.GetByID(0)
	require.NotNil(t, dolo)
	assert.Equal(t, "Dolo 650 Tablet", dolo.Name)
	assert.Equal(t, "Paracetamol (650mg)", dolo.GenericName)
	assert.InDelta(t, 33.60, dolo.Price, 0.001)
	assert.Equal(t, "Micro Labs Ltd", dolo.Manufacturer)
	assert.False(t, dolo.PrescriptionRequired)
	assert.Equal(t, "https://img.example.com/dolo.jpg", dolo.ImageURL)
	assert.True(t, dolo.Available)
}

func TestLoadRxRequired(t *testing.T) {
	cat := loadSample(t)

	azithral := cat.GetByID(2)
	require.NotNil(t, azithral)
	assert.True(t, azithral.PrescriptionRequired)
}

func TestLoadBadPriceFallsBack(t *testing.T) {
	cat := loadSample(t)

	cetrizine := cat.GetByID(3)
	require.NotNil(t, cetrizine)
	assert.Equal(t, defaultPrice, cetrizine.Price)
	assert.Equal(t, "Unknown", cetrizine.Manufacturer)
}

func TestGetByIDOutOfRange(t *testing.T) {
	cat := loadSample(t)
	assert.Nil(t, cat.GetByID(-1))
	assert.Nil(t, cat.GetByID(99))
}

func TestSearchMatchesNameGenericAndDisease(t *testing.T) {
	cat := loadSample(t)

	byName := cat.Search("dolo", 10)
	require.Len(t, byName, 1)
	assert.Equal(t, "Dolo 650 Tablet", byName[0].Name)

	byGeneric := cat.Search("paracetamol", 10)
	assert.Len(t, byGeneric, 2)

	byDisease := cat.Search("allergy", 10)
	require.Len(t, byDisease, 1)
	assert.Equal(t, "Cetrizine Tablet", byDisease[0].Name)
}

func TestSearchHonorsLimit(t *testing.T) {
	cat := loadSample(t)
	assert.Len(t, cat.Search("paracetamol", 1), 1)
}

func TestSearchEmptyQuery(t *testing.T) {
	cat := loadSample(t)
	assert.Empty(t, cat.Search("", 10))
	assert.Empty(t, cat.Search("   ", 10))
}

func TestPagePagination(t *testing.T) {
	cat := loadSample(t)

	page1, total := cat.Page("", 1, 3)
	assert.Equal(t, 4, total)
	assert.Len(t, page1, 3)

	page2, _ := cat.Page("", 2, 3)
	require.Len(t, page2, 1)
	assert.Equal(t, "Cetrizine Tablet", page2[0].Name)

	beyond, _ := cat.Page("", 5, 3)
	assert.Empty(t, beyond)
}

func TestPageWithSearchFilter(t *testing.T) {
	cat := loadSample(t)

	filtered, total := cat.Page("fever", 1, 20)
	assert.Equal(t, 2, total)
	assert.Len(t, filtered, 2)
}
