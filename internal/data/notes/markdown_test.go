package notes

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/penwyp/go-daylog/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNote = `# 2025-10-09

#### 💤 睡眠
睡覺時間：0130 [sleep_start:: 0130]
起床時間：0830
持續時間(H)：7.0

#### 🏃 運動
種類：跑步
開始時間：1800
持續時間：30
種類：伸展
持續時間：10 [exercise_duration:: 10]

#### 🍎 飲食
飲食時間(HHMM)：0800
飲食項目：燕麥 ![[oatmeal.jpg]]
飲食時間(HHMM)：2030
飲食項目：宵夜
加一顆蛋
飲食照片：![[1000_assets/night.jpg|300]] ![[night.jpg]]
[diet_photo:: extra.png]

` + "```" + `
飲食時間(HHMM)：2300
` + "```" + `

#### 📝 筆記
種類：不該被解析
`

func parseString(t *testing.T, note string) model.LogDay {
	t.Helper()
	day, err := Parse(strings.NewReader(note), "2025-10-09")
	require.NoError(t, err)
	return day
}

func TestParseSampleNote(t *testing.T) {
	day := parseString(t, sampleNote)

	assert.Equal(t, "2025-10-09", day.Date)
	assert.Equal(t, []model.SleepEntry{{Hours: "7", Start: "0130", End: "0830"}}, day.Sleep)
	assert.Equal(t, []model.ExerciseEntry{
		{Type: "跑步", Start: "1800", Duration: "30"},
		{Type: "伸展", Duration: "10"},
	}, day.Exercise)

	require.Len(t, day.Diet, 2)
	assert.Equal(t, model.DietEntry{Time: "0800", Item: "燕麥", Images: []string{"oatmeal.jpg"}}, day.Diet[0])
	assert.Equal(t, model.Text("2030"), day.Diet[1].Time)
	assert.Equal(t, model.Text("宵夜 加一顆蛋"), day.Diet[1].Item)
	assert.Equal(t, []string{"1000_assets/night.jpg", "night.jpg", "extra.png"}, day.Diet[1].Images)
}

func TestSleepNeedsAllFields(t *testing.T) {
	day := parseString(t, "#### 睡眠\n睡覺時間：2330\n持續時間(H)：7\n")
	assert.Empty(t, day.Sleep, "no wake time")

	day = parseString(t, "#### 睡眠\n睡覺時間：2330\n起床時間：0600\n持續時間(H)：約七小時\n")
	require.Len(t, day.Sleep, 1)
	assert.True(t, day.Sleep[0].Hours.IsZero(), "non-numeric hours are dropped")

	day = parseString(t, "#### 睡眠\n睡覺時間：2330\n起床時間：0600\n")
	assert.Empty(t, day.Sleep, "hours line is required")
}

func TestExerciseFlushedAtSectionEnd(t *testing.T) {
	day := parseString(t, "#### 運動\n種類：游泳\n開始時間：0700\n#### 飲食\n")
	assert.Equal(t, []model.ExerciseEntry{{Type: "游泳", Start: "0700"}}, day.Exercise)
	assert.Empty(t, day.Diet)
}

func TestFitnessNotes(t *testing.T) {
	day := parseString(t, "## 健身紀錄\n- **深蹲** 5x5\n\n* 臥推 3x8 [rpe:: 8]\n1. 硬舉\n")
	assert.Equal(t, []string{"**深蹲** 5x5", "臥推 3x8", "硬舉"}, day.FitnessNotes)
	assert.Empty(t, day.Exercise)
}

func TestExtractImages(t *testing.T) {
	assert.Equal(t, []string{"a.jpg", "b.png"}, ExtractImages("![[a.jpg]] text ![[ b.png|200 ]]"))
	assert.Equal(t, []string{"c.jpg"}, ExtractImages("[diet_photo:: c.jpg ]"))
	assert.Equal(t, []string{"c.jpg"}, ExtractImages("![[c.jpg]] [diet_photo:: c.jpg]"))
	assert.Nil(t, ExtractImages("no images"))
}

func TestStripInlineFields(t *testing.T) {
	assert.Equal(t, "0130", StripInlineFields(" 0130 [sleep_start:: 0130] "))
	assert.Equal(t, "a b", StripInlineFields("a [x:: 1] b"))
	assert.Equal(t, "[not a field]", StripInlineFields("[not a field]"))
}

func TestEmptyNote(t *testing.T) {
	day := parseString(t, "")
	assert.Equal(t, model.NewLogDay("2025-10-09"), day)
}

func TestParseWholeDay(t *testing.T) {
	note := "#### 睡眠\n睡覺時間：2330\n起床時間：0630\n持續時間(H)：7\n\n#### 健身\n- 深蹲 **5x5**\n"

	got, err := Parse(strings.NewReader(note), "2025-10-01")
	require.NoError(t, err)

	want := model.NewLogDay("2025-10-01")
	want.Sleep = []model.SleepEntry{{Hours: "7", Start: "2330", End: "0630"}}
	want.FitnessNotes = []string{"深蹲 **5x5**"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}
