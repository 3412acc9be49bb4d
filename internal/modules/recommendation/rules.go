package recommendation

import (
	"fmt"
	"strings"
	"time"
)

// conditions is the input to the rule-based recommendation.
type conditions struct {
	Temp        float64
	Description string
	Humidity    int
}

type tempBand struct {
	min    float64
	outfit string
	items  []string
	advice string
}

// Bands in descending order; the first whose min is met applies.
var tempBands = []tempBand{
	{28, "반팔 티셔츠와 반바지 또는 린넨 소재의 가벼운 옷", []string{"선글라스", "모자", "선크림", "물병"}, "매우 더운 날씨입니다. 수분 섭취에 유의하세요!"},
	{23, "반팔 티셔츠와 청바지, 면 소재 옷", []string{"얇은 가디건", "선글라스", "모자"}, "쾌적한 날씨입니다. 일교차에 대비해 얇은 겉옷을 준비하세요."},
	{20, "긴팔 티셔츠, 얇은 니트", []string{"가벼운 재킷", "편한 신발"}, "선선한 날씨입니다. 활동하기 좋은 온도예요!"},
	{17, "긴팔 셔츠에 가디건 또는 자켓", []string{"스카프", "편한 운동화"}, "약간 쌀쌀합니다. 겉옷을 꼭 챙기세요."},
	{12, "니트나 맨투맨에 자켓", []string{"목도리", "바람막이"}, "쌀쌀한 날씨입니다. 따뜻하게 입으세요."},
	{5, "두꺼운 코트와 기모 옷", []string{"목도리", "장갑", "방한 모자"}, "추운 날씨입니다. 방한 준비를 철저히 하세요."},
}

var freezing = tempBand{outfit: "패딩과 방한 장비", items: []string{"두꺼운 목도리", "방한 장갑", "방한 모자", "핫팩"}, advice: "매우 추운 날씨입니다. 여러 겹 레이어드로 입으세요!"}

func ruleBased(c conditions) string {
	band := freezing
	for _, b := range tempBands {
		if c.Temp >= b.min {
			band = b
			break
		}
	}
	items := append([]string(nil), band.items...)
	advice := band.advice

	desc := strings.ToLower(c.Description)
	if strings.Contains(desc, "비") || strings.Contains(desc, "rain") {
		items = append(items, "우산", "방수 재킷", "방수 신발")
		advice += " 비가 예상되니 우산과 방수 용품을 준비하세요."
	}
	if strings.Contains(desc, "눈") || strings.Contains(desc, "snow") {
		items = append(items, "방수 부츠", "미끄럼 방지 신발")
		advice += " 눈이 예상되니 미끄럼 방지 신발을 신으세요."
	}
	if c.Humidity >= 80 {
		advice += " 습도가 높으니 통풍이 잘 되는 옷을 입으세요."
	}

	return fmt.Sprintf("👔 추천 옷차림:\n%s\n\n🎒 필수 준비물:\n%s\n\n💡 여행 팁:\n%s",
		band.outfit, strings.Join(items, ", "), advice)
}

// seasonal is the estimate used when the forecast window does not reach a date.
func seasonal(month time.Month) (temp float64, desc string) {
	switch month {
	case time.June, time.July, time.August:
		return 28, "더운 여름 날씨"
	case time.March, time.April, time.May:
		return 18, "따뜻한 봄 날씨"
	case time.September, time.October, time.November:
		return 15, "선선한 가을 날씨"
	}
	return 5, "추운 겨울 날씨"
}
