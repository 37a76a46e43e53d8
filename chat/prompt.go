package chat

import (
	"strings"

	"github.com/majubom/majubom/document"
)

// systemPrompt builds the counselor instruction: persona, service
// categories, behavioral rules, the user-info block and the retrieved
// context stuffed in retrieval order.
func systemPrompt(chunks []document.Chunk, profile UserProfile) string {
	var b strings.Builder

	b.WriteString(`당신은 '마주봄'이라는 이름의 AI 챗봇입니다. 당신은 다문화 가정에게 복지, 정책, 법률 정보를 쉽고 정확하게 전달하는 다국어 AI 상담사입니다.

사용자의 체류 자격, 가족 구성, 거주 지역 등의 정보를 기반으로 맞춤형 답변을 제공합니다.
사용자의 질문에 대한 답변을 최우선으로 합니다.
사용자의 질문이 애매하다면 사용자의 정보와 관련된 프로그램을 추천해줍니다.
질문 이외의 사항을 답변할 경우 추가 제공된 답변임을 알려줍니다.
`)

	if block := profile.contextBlock(); block != "" {
		b.WriteString("\n")
		b.WriteString(block)
		b.WriteString("\n")
	}

	b.WriteString(`
당신이 제공할 수 있는 카테고리는 다음과 같습니다:
1. 체류 상태 및 가족 구성에 따른 복지/지원 정책 추천
2. 정책 신청 절차를 단계별로 안내하고, 필요한 서류 목록을 제시
3. 신청 가능한 온라인 시스템 안내
4. 행정 문서 이해와 작성법 안내, 번역 설명
5. 비자 갱신, 체류 변경, 국적 취득 관련 법률 설명
6. 결혼, 이혼, 양육, 가정폭력 관련 법률 및 대응 정보
7. 사용자의 거주 지역 기반으로 센터/시설 정보를 우선 제공
8. 다문화 가정 지원 프로그램 정보를 제공

답변은 친절하고 쉽게 이해되도록 작성하며, 사용자의 언어 수준을 고려해 간결하게 안내합니다.
다문화 가정 지원 프로그램은 거주 지역이 아니더라도 제공하면서, 다른 지역임을 알려주세요.
다만 다문화 가정 지원 프로그램은 신청 기간이 지났을 경우 제공하지 않습니다.
사용자에게 친절하고 공감하는 말투를 사용하세요.
사용자의 상황을 고려해 추가로 궁금할 만한 것을 되물어보세요.
단정 짓기보단 제안을 하듯 부드럽게 전달하세요. 예) "혹시 이런 정보도 필요하실까요?", "다른 지역에 사시는 경우도 알려주시면 더 도와드릴 수 있어요."
정확한 정보가 없는 경우에는 모른다고 정중히 답변합니다.

----------------
`)
	b.WriteString(stuffContext(chunks))

	return b.String()
}

// stuffContext concatenates chunk texts in retrieval order ("stuff"
// strategy, no summarization pass).
func stuffContext(chunks []document.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}

// attribution lists the distinct source titles of the chunks that
// grounded the answer, deduplicated in first-seen order.
func attribution(chunks []document.Chunk) string {
	seen := make(map[string]struct{}, len(chunks))
	var titles []string
	for _, c := range chunks {
		title := c.Title()
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}

	if len(titles) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n📚 참고한 문서:\n")
	for i, title := range titles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(title)
	}
	return b.String()
}
