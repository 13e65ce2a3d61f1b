package reminder

import (
	"fmt"

	"rotrack/internal/domain/settings"
)

type Type string

const (
	TypeOverdue Type = "Overdue"
	TypeMonthly Type = "Monthly"
)

// Reminder is an ephemeral, derived notification. It is regenerated on demand
// and never treated as a source of truth; its ID is unique per generation
// batch, not a durable key.
type Reminder struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customerId"`
	CustomerName   string `json:"customerName"`
	CustomerMobile string `json:"customerMobile"`
	Type           Type   `json:"type"`
	Message        string `json:"message"`
	MessageHi      string `json:"messageHi"`
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthNamesHi = [12]string{
	"जनवरी", "फ़रवरी", "मार्च", "अप्रैल", "मई", "जून",
	"जुलाई", "अगस्त", "सितंबर", "अक्टूबर", "नवंबर", "दिसंबर",
}

// renderMessages fills the two fixed message templates. The urgent template is
// used whenever any truly overdue month exists; the friendly one covers a pure
// current-month reminder.
func renderMessages(customerName, monthsList, monthsListHi string, totalAmountDue int64, paymentLink string, reminderType Type) (message, messageHi string) {
	if reminderType == TypeOverdue {
		message = fmt.Sprintf(
			"URGENT: Dear %s, our records show an outstanding balance on your RO service account. Payments for the following months are overdue: %s. The total amount due is ₹%d. To avoid service interruption, please clear this balance immediately. Pay securely here: %s. Thank you for your prompt attention.",
			customerName, monthsList, totalAmountDue, paymentLink)
		messageHi = fmt.Sprintf(
			"अत्यावश्यक: प्रिय %s, हमारे रिकॉर्ड आपके आरओ सेवा खाते पर एक बकाया राशि दिखा रहे हैं। निम्नलिखित महीनों के लिए भुगतान अतिदेय हैं: %s। कुल देय राशि ₹%d है। सेवा में रुकावट से बचने के लिए, कृपया इस शेष राशि का तुरंत भुगतान करें। यहां सुरक्षित रूप से भुगतान करें: %s। आपके तत्काल ध्यान के लिए धन्यवाद।",
			customerName, monthsListHi, totalAmountDue, paymentLink)
		return message, messageHi
	}

	message = fmt.Sprintf(
		"Dear %s, this is a friendly reminder for your RO service payment. The rent for %s, amounting to ₹%d, is now due. To ensure uninterrupted service, please complete the payment at your earliest convenience. Pay securely here: %s. Thank you!",
		customerName, monthsList, totalAmountDue, paymentLink)
	messageHi = fmt.Sprintf(
		"प्रिय %s, यह आपके आरओ सेवा भुगतान के लिए एक विनम्र अनुस्मारक है। %s का किराया, ₹%d की राशि, अब देय है। निर्बाध सेवा सुनिश्चित करने के लिए, कृपया जल्द से जल्द भुगतान पूरा करें। यहां सुरक्षित रूप से भुगतान करें: %s। धन्यवाद!",
		customerName, monthsListHi, totalAmountDue, paymentLink)
	return message, messageHi
}

func paymentLinkOrPlaceholder(appSettings settings.AppSettings) string {
	if appSettings.PaymentLink != "" {
		return appSettings.PaymentLink
	}
	return settings.PaymentLinkPlaceholder
}
