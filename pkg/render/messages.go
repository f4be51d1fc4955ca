package render

import "github.com/goliatone/go-bookform/pkg/book"

// Message keys shared by the front-ends. Validation keys live in pkg/book.
const (
	KeyPageTitle       = "page.title"
	KeySubmitCreate    = "form.submit.create"
	KeySubmitUpdate    = "form.submit.update"
	KeyCancel          = "form.cancel"
	KeyEditFailed      = "form.edit_failed"
	KeyListLoadFailed  = "list.load_failed"
	KeyListEmpty       = "list.empty"
	KeyListActions     = "list.column.actions"
	KeyEdit            = "list.edit"
	KeyDelete          = "list.delete"
	KeyDeleteConfirm   = "list.delete_confirm"
	KeyDeleteFailed    = "list.delete_failed"
	KeyDeleteError     = "list.delete_error"
	KeyConfirmYes      = "confirm.yes"
	KeyConfirmNo       = "confirm.no"
	KeyMenuCreate      = "menu.create"
	KeyMenuEdit        = "menu.edit"
	KeyMenuDelete      = "menu.delete"
	KeyMenuRefresh     = "menu.refresh"
	KeyMenuQuit        = "menu.quit"
	KeyMenuPrompt      = "menu.prompt"
	KeyPickBook        = "menu.pick_book"
	KeyTransportPrefix = "error.transport"
	KeyRetry           = "menu.retry"
)

// FieldLabelKey returns the catalog key holding the label of a form field.
func FieldLabelKey(fieldID string) string {
	return "field." + fieldID
}

var koMessages = map[string]string{
	KeyPageTitle:       "도서 관리",
	KeySubmitCreate:    "도서 등록",
	KeySubmitUpdate:    "도서 수정",
	KeyCancel:          "취소",
	KeyEditFailed:      "수정 모드 진입 실패: %s",
	KeyListLoadFailed:  "도서 목록을 불러오지 못했습니다.",
	KeyListEmpty:       "등록된 도서가 없습니다.",
	KeyListActions:     "관리",
	KeyEdit:            "수정",
	KeyDelete:          "삭제",
	KeyDeleteConfirm:   "정말 삭제하시겠습니까?",
	KeyDeleteFailed:    "삭제 실패",
	KeyDeleteError:     "삭제 중 오류: %s",
	KeyConfirmYes:      "삭제",
	KeyConfirmNo:       "취소",
	KeyMenuCreate:      "새 도서 등록",
	KeyMenuEdit:        "도서 수정",
	KeyMenuDelete:      "도서 삭제",
	KeyMenuRefresh:     "새로고침",
	KeyMenuQuit:        "종료",
	KeyMenuPrompt:      "무엇을 하시겠습니까?",
	KeyPickBook:        "도서를 선택하세요",
	KeyTransportPrefix: "서버 통신 오류: %s",
	KeyRetry:           "다시 입력하시겠습니까?",

	"field.title":         "제목",
	"field.author":        "저자",
	"field.isbn":          "ISBN",
	"field.price":         "가격",
	"field.publishDate":   "출판일",
	"field.publisher":     "출판사",
	"field.language":      "언어",
	"field.edition":       "판",
	"field.pageCount":     "쪽수",
	"field.coverImageUrl": "표지 URL",
	"field.description":   "설명",
}

var enMessages = map[string]string{
	KeyPageTitle:       "Books",
	KeySubmitCreate:    "Add book",
	KeySubmitUpdate:    "Update book",
	KeyCancel:          "Cancel",
	KeyEditFailed:      "Could not enter edit mode: %s",
	KeyListLoadFailed:  "Could not load the book list.",
	KeyListEmpty:       "No books yet.",
	KeyListActions:     "Actions",
	KeyEdit:            "Edit",
	KeyDelete:          "Delete",
	KeyDeleteConfirm:   "Delete this book?",
	KeyDeleteFailed:    "Delete failed",
	KeyDeleteError:     "Error while deleting: %s",
	KeyConfirmYes:      "Delete",
	KeyConfirmNo:       "Cancel",
	KeyMenuCreate:      "Add a book",
	KeyMenuEdit:        "Edit a book",
	KeyMenuDelete:      "Delete a book",
	KeyMenuRefresh:     "Refresh",
	KeyMenuQuit:        "Quit",
	KeyMenuPrompt:      "What would you like to do?",
	KeyPickBook:        "Choose a book",
	KeyTransportPrefix: "Server communication error: %s",
	KeyRetry:           "Try again?",

	book.KeyTitleRequired:     "Title is required.",
	book.KeyAuthorRequired:    "Author is required.",
	book.KeyISBNRequired:      "ISBN is required.",
	book.KeyPricePositive:     "Price must be a number greater than 0.",
	book.KeyPublishDateFormat: "Publish date is malformed. (e.g. 2025-05-07)",

	"field.title":         "Title",
	"field.author":        "Author",
	"field.isbn":          "ISBN",
	"field.price":         "Price",
	"field.publishDate":   "Publish date",
	"field.publisher":     "Publisher",
	"field.language":      "Language",
	"field.edition":       "Edition",
	"field.pageCount":     "Pages",
	"field.coverImageUrl": "Cover URL",
	"field.description":   "Description",
}

// DefaultCatalog returns a catalog seeded with the bundled Korean and English
// messages, falling back to Korean.
func DefaultCatalog() *Catalog {
	c := NewCatalog(DefaultLocale)
	c.Add("ko", koMessages)
	c.Add("ko", book.DefaultMessages)
	c.Add("en", enMessages)
	return c
}
