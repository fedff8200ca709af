package itinera

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeForm parses an encoded body back into fields and files so tests can
// assert on what the upstream would actually receive.
func decodeForm(t *testing.T, body io.Reader, contentType string) (map[string][]string, map[string][]string) {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(body, params["boundary"])
	fields := map[string][]string{}
	files := map[string][]string{}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)

		if part.FileName() != "" {
			files[part.FormName()] = append(files[part.FormName()], part.FileName()+":"+string(data))
			continue
		}
		fields[part.FormName()] = append(fields[part.FormName()], string(data))
	}
	return fields, files
}

func testForm() *ExperienceForm {
	return &ExperienceForm{
		Status:      "published",
		Title:       "Street food walk",
		Description: "Four stops through the old town markets.",
		Price:       "25.00",
		Unit:        "Entry",
		Availability: []DaySchedule{
			{DayOfWeek: "Sat", TimeSlots: []TimeSlot{{StartTime: "10:00:00", EndTime: "13:00:00"}}},
		},
		TagIDs:     []int{1, 4},
		Companions: []string{"Friends"},
	}
}

func TestEncodeScalarAndJSONFields(t *testing.T) {
	form := testForm()
	form.UseExistingDestination = true
	form.DestinationID = 7

	body, contentType, err := form.Encode()
	require.NoError(t, err)

	fields, files := decodeForm(t, body, contentType)
	assert.Empty(t, files)

	assert.Equal(t, []string{"Street food walk"}, fields["title"])
	assert.Equal(t, []string{"25.00"}, fields["price"])
	assert.Equal(t, []string{"Entry"}, fields["unit"])
	assert.Equal(t, []string{"published"}, fields["status"])
	assert.Equal(t, []string{"7"}, fields["destination_id"])
	assert.NotContains(t, fields, "destination")
	assert.NotContains(t, fields, "deleted_image_ids")

	var days []DaySchedule
	require.NoError(t, json.Unmarshal([]byte(fields["availability"][0]), &days))
	require.Len(t, days, 1)
	assert.Equal(t, "Sat", days[0].DayOfWeek)
	assert.Equal(t, "10:00:00", days[0].TimeSlots[0].StartTime)

	var tags []int
	require.NoError(t, json.Unmarshal([]byte(fields["tags"][0]), &tags))
	assert.Equal(t, []int{1, 4}, tags)

	var companions []string
	require.NoError(t, json.Unmarshal([]byte(fields["companions"][0]), &companions))
	assert.Equal(t, []string{"Friends"}, companions)
}

func TestEncodeInlineDestination(t *testing.T) {
	form := testForm()
	form.Destination = &Destination{
		Name: "Plaza Mayor", City: "Cusco", Description: "Central square",
		Latitude: -13.516, Longitude: -71.978,
	}

	body, contentType, err := form.Encode()
	require.NoError(t, err)

	fields, _ := decodeForm(t, body, contentType)
	assert.NotContains(t, fields, "destination_id")

	var dst Destination
	require.NoError(t, json.Unmarshal([]byte(fields["destination"][0]), &dst))
	assert.Equal(t, "Cusco", dst.City)
}

func TestEncodeImagesAndDeletions(t *testing.T) {
	form := testForm()
	form.UseExistingDestination = true
	form.DestinationID = 7
	form.NewImages = []ImageUpload{
		{Filename: "a.jpg", Content: strings.NewReader("AAA")},
		{Filename: "b.jpg", Content: strings.NewReader("BBB")},
	}
	form.DeletedImageIDs = []int{10, 11}

	body, contentType, err := form.Encode()
	require.NoError(t, err)

	fields, files := decodeForm(t, body, contentType)
	assert.Equal(t, []string{"a.jpg:AAA", "b.jpg:BBB"}, files["images"])

	var deleted []int
	require.NoError(t, json.Unmarshal([]byte(fields["deleted_image_ids"][0]), &deleted))
	assert.Equal(t, []int{10, 11}, deleted)
}
