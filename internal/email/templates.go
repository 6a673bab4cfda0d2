package email

import "fmt"

// BuildLowStockBody builds the HTML body for a low stock alert email
func BuildLowStockBody(productName, sku string, remaining int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #e67e22; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Low stock alert</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Stock for the following product has dropped below the alert threshold.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Product</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold;">%s</p>
			<p style="margin: 5px 0 0 0; font-size: 14px; color: #666; font-family: monospace;">SKU: %s</p>
		</div>

		<p style="font-size: 16px;">Remaining units: <strong>%d</strong></p>

		<p style="font-size: 14px; color: #666;">Review the inventory dashboard and restock if needed.</p>
	</div>
</body>
</html>`, productName, sku, remaining)
}
