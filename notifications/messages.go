package notifications

import (
	"fmt"
	"strings"
	"time"
)

func WorkOrderApproved(woNumber string, dnNumbers []string) Event {
	return Event{
		Kind:    KindWorkOrderApproved,
		RefNo:   woNumber,
		Subject: fmt.Sprintf("Work order %s approved", woNumber),
		Body: fmt.Sprintf("Work order %s was approved by the manager.\nDelivery note(s): %s\n",
			woNumber, strings.Join(dnNumbers, ", ")),
	}
}

func WorkOrderDeclined(woNumber, reason string) Event {
	return Event{
		Kind:    KindWorkOrderDeclined,
		RefNo:   woNumber,
		Subject: fmt.Sprintf("Work order %s declined", woNumber),
		Body:    fmt.Sprintf("Work order %s was declined.\nReason: %s\n", woNumber, reason),
	}
}

func DeliveryNoteDelivered(dnNumber, woNumber string, workOrderDelivered bool) Event {
	body := fmt.Sprintf("Signed delivery note %s was uploaded for work order %s.\n", dnNumber, woNumber)
	if workOrderDelivered {
		body += fmt.Sprintf("All deliveries of %s are complete.\n", woNumber)
	}
	return Event{
		Kind:    KindDeliveryNoteDelivered,
		RefNo:   dnNumber,
		Subject: fmt.Sprintf("Delivery note %s delivered", dnNumber),
		Body:    body,
	}
}

func WorkOrderClosed(woNumber string) Event {
	return Event{
		Kind:    KindWorkOrderClosed,
		RefNo:   woNumber,
		Subject: fmt.Sprintf("Work order %s closed", woNumber),
		Body:    fmt.Sprintf("Work order %s was closed.\n", woNumber),
	}
}

// InvoiceStatusChanged is sent to the admins and to the sales person of the
// purchase order when known.
func InvoiceStatusChanged(refNo, from, to string, salesPerson string) Event {
	ev := Event{
		Kind:    KindInvoiceStatusChanged,
		RefNo:   refNo,
		Subject: fmt.Sprintf("Invoice status update for %s", refNo),
		Body:    fmt.Sprintf("The invoice status of %s changed from %s to %s.\n", refNo, from, to),
	}
	if salesPerson != "" {
		ev.Recipients = []string{salesPerson}
	}
	return ev
}

func InvoiceDueReminder(refNo string, dueDate time.Time, midpoint bool) Event {
	when := "is due today"
	if midpoint {
		when = "is due on " + dueDate.Format("2006-01-02")
	}
	return Event{
		Kind:    KindInvoiceDueReminder,
		RefNo:   refNo,
		Subject: fmt.Sprintf("Payment reminder for %s", refNo),
		Body:    fmt.Sprintf("The invoice for %s %s.\n", refNo, when),
	}
}

func InvoicePastDue(refNo string, dueDate time.Time, daysLate int) Event {
	return Event{
		Kind:    KindInvoicePastDue,
		RefNo:   refNo,
		Subject: fmt.Sprintf("Invoice past due for %s", refNo),
		Body: fmt.Sprintf("The invoice for %s was due on %s and is %d day(s) overdue.\n",
			refNo, dueDate.Format("2006-01-02"), daysLate),
	}
}
