package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/majubom/majubom/document"
)

const defaultPerPage = 1000

// Public data-portal endpoints. The first two are odcloud datasets keyed
// by page/perPage; the danuri endpoint is a plain data.go.kr API that
// additionally requires type=json.
var (
	koreanEducationURL     = "https://api.odcloud.kr/api/3077037/v1/uddi:de366691-6657-4b87-b324-f1bbbf01c0cb"
	interpreterStaffingURL = "https://api.odcloud.kr/api/3081602/v1/uddi:3edbb122-3a1c-420d-992a-855bd0a961aa"
	crisisCenterURL        = "https://apis.data.go.kr/B554287/DanuriCrisisCenter/getCrisisCenterList"
)

// Languages tracked by the interpreter-staffing dataset, in dataset
// column order.
var staffingLanguages = []string{
	"네팔어", "러시아어", "몽골어", "베트남어", "우즈베크어",
	"일본어", "중국어", "캄보디아어", "태국어", "필리핀어",
}

type odcloudResponse struct {
	Data []map[string]any `json:"data"`
}

// fetchPage issues one GET against a paginated portal endpoint. The
// serviceKey comes from the environment at startup. A non-2xx status
// fails the batch with an APIError.
func (s *Service) fetchPage(ctx context.Context, endpoint string, page, perPage int, extra url.Values) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("perPage", strconv.Itoa(perPage))
	params.Set("serviceKey", s.apiKey)
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{URL: endpoint, Status: resp.StatusCode}
	}

	var payload odcloudResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode data API response: %w", err)
	}

	return payload.Data, nil
}

// LoadKoreanEducation fetches one page of the marriage-immigrant Korean
// language education institution dataset and renders each row into a
// Record. Only non-empty fields carry information; empty ones get the
// explicit placeholder instead.
func (s *Service) LoadKoreanEducation(ctx context.Context, page, perPage int) ([]document.Record, error) {
	rows, err := s.fetchPage(ctx, koreanEducationURL, page, perPage, nil)
	if err != nil {
		return nil, err
	}

	records := make([]document.Record, 0, len(rows))
	for _, item := range rows {
		contacts := make([]string, 0, 5)
		for i := 1; i <= 4; i++ {
			if number := itemString(item, fmt.Sprintf("연락처%d", i)); number != "" {
				contacts = append(contacts, NormalizePhone(number))
			}
		}
		if number := itemString(item, "연락처"); number != "" {
			contacts = append(contacts, NormalizePhone(number))
		}
		contactLine := strings.Join(contacts, ", ")
		if contactLine == "" {
			contactLine = "연락처 정보 없음"
		}

		text := strings.Join([]string{
			"결혼이민자 대상 한국어 교육기관 정보",
			"시도: " + valueOr(itemString(item, "시도"), "시도 정보 없음"),
			"운영기관명: " + itemString(item, "운영기관명"),
			"주소: " + valueOr(itemString(item, "주소"), "주소 정보 없음"),
			"연락처: " + contactLine,
		}, "\n")

		records = append(records, document.NewRecord(text, map[string]string{
			document.TagSource:   "여성가족부 결혼이민자 대상 한국어교육 운영기관 현황 (공공데이터포털 제공)",
			document.TagType:     "API to Vector DB",
			document.TagCategory: "korean_language_education",
		}))
	}

	return records, nil
}

// LoadInterpreterStaffing fetches one page of the nationwide
// support-center interpreter/translator staffing dataset. Language
// counts of zero are omitted so the Record carries no noise lines.
func (s *Service) LoadInterpreterStaffing(ctx context.Context, page, perPage int) ([]document.Record, error) {
	rows, err := s.fetchPage(ctx, interpreterStaffingURL, page, perPage, nil)
	if err != nil {
		return nil, err
	}

	records := make([]document.Record, 0, len(rows))
	for _, item := range rows {
		lines := []string{
			"전국 다문화가족지원센터 통번역 지원사 배치현황 정보",
			"연번: " + valueOr(itemString(item, "연번"), "연번 정보 없음"),
			"시도명: " + valueOr(itemString(item, "시도명"), "시도 정보 없음"),
			"센터명: " + valueOr(itemString(item, "센터명"), "센터 정보 없음"),
		}

		for _, lang := range staffingLanguages {
			if count := itemInt(item, lang); count > 0 {
				lines = append(lines, fmt.Sprintf("%s: %d명", lang, count))
			}
		}

		records = append(records, document.NewRecord(strings.Join(lines, "\n"), map[string]string{
			document.TagSource:   "한국건강가정진흥원_전국 다문화가족지원센터 통번역 지원사 배치현황 (공공데이터포털 제공)",
			document.TagType:     "API to Vector DB",
			document.TagCategory: "interpreter_translator_info",
		}))
	}

	return records, nil
}

// LoadCrisisCenters fetches one page of the danuri crisis-counseling
// center dataset. Phone numbers are normalized to the hyphenated form.
func (s *Service) LoadCrisisCenters(ctx context.Context, page, perPage int) ([]document.Record, error) {
	extra := url.Values{}
	extra.Set("type", "json")

	rows, err := s.fetchPage(ctx, crisisCenterURL, page, perPage, extra)
	if err != nil {
		return nil, err
	}

	records := make([]document.Record, 0, len(rows))
	for _, item := range rows {
		lines := []string{
			"폭력피해 이주여성 위기 상담소 정보",
			"상담소명: " + valueOr(itemString(item, "상담소명"), "상담소 정보 없음"),
			"시도명: " + valueOr(itemString(item, "시도명"), "시도 정보 없음"),
		}
		if addr := itemString(item, "주소"); addr != "" {
			lines = append(lines, "주소: "+addr)
		}
		if phone := itemString(item, "전화번호"); phone != "" {
			lines = append(lines, "전화번호: "+NormalizePhone(phone))
		}

		records = append(records, document.NewRecord(strings.Join(lines, "\n"), map[string]string{
			document.TagSource:   "여성가족부 폭력피해 이주여성 상담소 현황 (공공데이터포털 제공)",
			document.TagType:     "API to Vector DB",
			document.TagCategory: "crisis_counseling",
		}))
	}

	return records, nil
}

func itemString(item map[string]any, key string) string {
	switch v := item[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func itemInt(item map[string]any, key string) int {
	switch v := item[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func valueOr(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
