package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"storefront-api/store"
)

// GET /orders/export  (admin)
// Streams all orders as an xlsx download, one row per order.
func ExportOrdersToExcel(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAll()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "OrderRef", "UserID", "Status", "Total", "Discount",
			"CouponCode", "Name", "Phone", "Email", "Lines", "OrderTime",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range list {
			row := sheet.AddRow()
			row.AddCell().SetValue(o.OrderHeaderID)
			row.AddCell().SetValue(o.OrderRef)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(o.OrderTotal.StringFixed(2))
			row.AddCell().SetValue(o.Discount.StringFixed(2))
			row.AddCell().SetValue(o.CouponCode)
			row.AddCell().SetValue(o.Name)
			row.AddCell().SetValue(o.Phone)
			row.AddCell().SetValue(o.Email)
			row.AddCell().SetValue(len(o.Lines))
			row.AddCell().SetValue(o.OrderTime.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
