package email

import (
	"fmt"

	"pantrylog/internal/models"
)

func (s *Service) generateWelcomeHTML(user *models.User) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome to Pantrylog</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #b8541a;
            margin-bottom: 10px;
            text-align: center;
        }
        .welcome-message {
            font-size: 24px;
            color: #b8541a;
            margin-bottom: 20px;
            text-align: center;
        }
        .content {
            font-size: 16px;
            margin-bottom: 30px;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e9ecef;
            font-size: 14px;
            color: #6c757d;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Pantrylog</div>
        <div class="welcome-message">Welcome %s!</div>

        <div class="content">
            <p>Thank you for joining Pantrylog, your kitchen inventory tracker.</p>

            <p>Add the items in your pantry, fridge and freezer, and Pantrylog will
            keep an eye on what is running low or about to expire. You can also
            import an existing inventory from a CSV file at any time.</p>

            <p>Log in and add your first item to get started.</p>
        </div>

        <div class="footer">
            <p>You received this email because an account was created with this
            address on Pantrylog.</p>
        </div>
    </div>
</body>
</html>`, user.Name)
}

func (s *Service) generateWelcomeText(user *models.User) string {
	return fmt.Sprintf(`Welcome to Pantrylog, %s!

Thank you for joining Pantrylog, your kitchen inventory tracker.

Add the items in your pantry, fridge and freezer, and Pantrylog will keep an
eye on what is running low or about to expire. You can also import an existing
inventory from a CSV file at any time.

Log in and add your first item to get started.

You received this email because an account was created with this address on
Pantrylog.
`, user.Name)
}
